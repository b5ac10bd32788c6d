package services

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookahead/backend/models"
	"github.com/bookahead/backend/utils"
)

// ReservationService applies reservation changes to a table's reservation list.
type ReservationService struct {
	db        *gorm.DB
	window    ServiceWindow
	strict    bool
	publisher EventPublisher
}

type ReservationOption func(*ReservationService)

// WithServiceWindow overrides the reservable time range.
func WithServiceWindow(w ServiceWindow) ReservationOption {
	return func(s *ReservationService) { s.window = w }
}

// WithStrictDelete makes removing an unknown reservation a NotFound error
// instead of a successful no-op.
func WithStrictDelete(strict bool) ReservationOption {
	return func(s *ReservationService) { s.strict = strict }
}

func WithPublisher(p EventPublisher) ReservationOption {
	return func(s *ReservationService) { s.publisher = p }
}

func NewReservationService(db *gorm.DB, opts ...ReservationOption) *ReservationService {
	s := &ReservationService{
		db:        db,
		window:    DefaultServiceWindow(),
		publisher: NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type AddReservationInput struct {
	TableNumber     int
	RestaurantName  string
	User            string
	ReservationDate string
	ReservationTime string
}

// AddReservation books the table for one calendar day. A table holds at
// most one reservation per date regardless of time or user.
func (s *ReservationService) AddReservation(ctx context.Context, id Identity, in AddReservationInput) (*models.Table, error) {
	if id.IsUser() && in.User == "" {
		in.User = id.Name
	}
	if in.RestaurantName == "" {
		return nil, newError(KindMissingParameter, MsgRestaurantNameMissing)
	}
	if in.User == "" || in.ReservationDate == "" || in.ReservationTime == "" {
		return nil, newError(KindMissingParameter, MsgReservationFields)
	}
	if err := s.authorizeReservation(ctx, id, in.RestaurantName, in.User); err != nil {
		return nil, err
	}
	if _, err := ParseDate(in.ReservationDate); err != nil {
		return nil, newError(KindInvalidDate, MsgInvalidDate)
	}
	if !s.window.Contains(in.ReservationTime) {
		return nil, s.window.invalidTime()
	}

	reservation := models.Reservation{
		ID:              uuid.NewString(),
		User:            in.User,
		ReservationDate: in.ReservationDate,
		ReservationTime: in.ReservationTime,
	}

	table, err := mutateTable(ctx, s.db, tableLookup(in.TableNumber, in.RestaurantName), func(t *models.Table) (bool, error) {
		if t.HasReservationOn(in.ReservationDate) {
			return false, newError(KindConflict, MsgAlreadyReserved)
		}
		t.Reservations = append(t.Reservations, reservation)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Table %d of %q reserved by %q on %s %s",
		table.TableNumber, table.RestaurantName, in.User, in.ReservationDate, in.ReservationTime)
	publish(ctx, s.publisher, EventReservationCreated, reservationEvent(table, reservation))
	return table, nil
}

type RemoveReservationInput struct {
	TableNumber int
	// RestaurantName narrows the table lookup. When empty the table is
	// found by number alone, which is ambiguous across restaurants.
	RestaurantName  string
	ReservationDate string
	ReservationTime string
	User            string
}

// RemoveReservation deletes the reservation matching date, time and user
// exactly. A table without such a reservation is returned unchanged unless
// strict deletion is enabled.
func (s *ReservationService) RemoveReservation(ctx context.Context, id Identity, in RemoveReservationInput) (*models.Table, error) {
	if id.IsUser() && in.User == "" {
		in.User = id.Name
	}

	var removed []models.Reservation
	table, err := mutateTable(ctx, s.db, tableLookup(in.TableNumber, in.RestaurantName), func(t *models.Table) (bool, error) {
		if err := s.authorizeReservation(ctx, id, t.RestaurantName, in.User); err != nil {
			return false, err
		}
		removed = removed[:0]
		kept := slices.DeleteFunc(slices.Clone(t.Reservations), func(r models.Reservation) bool {
			if r.Matches(in.ReservationDate, in.ReservationTime, in.User) {
				removed = append(removed, r)
				return true
			}
			return false
		})
		if len(removed) == 0 {
			if s.strict {
				return false, newError(KindNotFound, MsgReservationNotFound)
			}
			return false, nil
		}
		t.Reservations = kept
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range removed {
		utils.InfoLogger.Printf("Reservation of %q on %s %s removed from table %d of %q",
			r.User, r.ReservationDate, r.ReservationTime, table.TableNumber, table.RestaurantName)
		publish(ctx, s.publisher, EventReservationCancelled, reservationEvent(table, r))
	}
	return table, nil
}

// FreeReservation deletes a reservation by its id from the table with tableID.
func (s *ReservationService) FreeReservation(ctx context.Context, id Identity, tableID uint, reservationID string) (*models.Table, error) {
	if tableID == 0 || reservationID == "" {
		return nil, newError(KindMissingParameter, "Table id and reservation id are required")
	}

	var removed *models.Reservation
	table, err := mutateTable(ctx, s.db, tableByID(tableID), func(t *models.Table) (bool, error) {
		removed = nil
		idx := slices.IndexFunc(t.Reservations, func(r models.Reservation) bool { return r.ID == reservationID })
		if idx < 0 {
			if s.strict {
				return false, newError(KindNotFound, MsgReservationNotFound)
			}
			return false, nil
		}
		r := t.Reservations[idx]
		if err := s.authorizeReservation(ctx, id, t.RestaurantName, r.User); err != nil {
			return false, err
		}
		removed = &r
		t.Reservations = slices.Delete(slices.Clone(t.Reservations), idx, idx+1)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if removed != nil {
		utils.InfoLogger.Printf("Reservation %s freed on table %d of %q", removed.ID, table.TableNumber, table.RestaurantName)
		publish(ctx, s.publisher, EventReservationCancelled, reservationEvent(table, *removed))
	}
	return table, nil
}

// authorizeReservation lets diners act only under their own name and
// owners only on their own restaurants.
func (s *ReservationService) authorizeReservation(ctx context.Context, id Identity, restaurantName, user string) error {
	if id.IsUser() {
		if user != id.Name {
			return newError(KindForbidden, MsgForbidden)
		}
		return nil
	}
	return authorizeRestaurant(ctx, s.db, id, restaurantName)
}

func reservationEvent(t *models.Table, r models.Reservation) ReservationEvent {
	return ReservationEvent{
		ReservationID:   r.ID,
		TableNumber:     t.TableNumber,
		RestaurantName:  t.RestaurantName,
		User:            r.User,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		OccurredAt:      nowStamp(),
	}
}

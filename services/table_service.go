package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bookahead/backend/models"
	"github.com/bookahead/backend/utils"
)

// maxWriteAttempts bounds the re-read/re-check loop of a versioned table write.
const maxWriteAttempts = 3

// TableService owns table creation, assignment and deletion.
type TableService struct {
	db *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{db: db}
}

type CreateTableInput struct {
	TableNumber    int
	RestaurantName string
	AssignedUser   string
	Reservations   []models.Reservation
}

// CreateTable adds a table; the number must be unused within the restaurant.
func (s *TableService) CreateTable(ctx context.Context, id Identity, in CreateTableInput) (*models.Table, error) {
	if in.TableNumber <= 0 || in.RestaurantName == "" {
		return nil, newError(KindMissingParameter, MsgTableFieldsMissing)
	}
	if err := authorizeRestaurant(ctx, s.db, id, in.RestaurantName); err != nil {
		return nil, err
	}

	exists, err := tableExists(ctx, s.db, in.TableNumber, in.RestaurantName)
	if err != nil {
		return nil, internalError(err)
	}
	if exists {
		return nil, newError(KindConflict, MsgTableExists)
	}

	reservations := make(datatypes.JSONSlice[models.Reservation], 0, len(in.Reservations))
	for _, r := range in.Reservations {
		for _, existing := range reservations {
			if existing.ReservationDate == r.ReservationDate {
				return nil, newError(KindConflict, MsgAlreadyReserved)
			}
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		reservations = append(reservations, r)
	}

	table := models.Table{
		TableNumber:    in.TableNumber,
		RestaurantName: in.RestaurantName,
		Reservations:   reservations,
	}
	table.Assign(in.AssignedUser)

	if err := s.db.WithContext(ctx).Create(&table).Error; err != nil {
		// a concurrent create may have won the unique index
		if exists, checkErr := tableExists(ctx, s.db, in.TableNumber, in.RestaurantName); checkErr == nil && exists {
			return nil, newError(KindConflict, MsgTableExists)
		}
		return nil, internalError(err)
	}

	utils.InfoLogger.Printf("Table %d added to restaurant %q", table.TableNumber, table.RestaurantName)
	return &table, nil
}

// DeleteTable removes the table with tableNumber. An empty restaurantName
// keeps the historical lookup by number alone, which picks the oldest match.
func (s *TableService) DeleteTable(ctx context.Context, id Identity, tableNumber int, restaurantName string) error {
	var table models.Table
	if err := tableLookup(tableNumber, restaurantName)(s.db.WithContext(ctx)).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(KindNotFound, MsgTableNotFound)
		}
		return internalError(err)
	}
	if err := authorizeRestaurant(ctx, s.db, id, table.RestaurantName); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Table{}, table.ID).Error; err != nil {
		return internalError(err)
	}

	utils.InfoLogger.Printf("Table %d of restaurant %q deleted", table.TableNumber, table.RestaurantName)
	return nil
}

// BlockTable holds the table exclusively for userName.
func (s *TableService) BlockTable(ctx context.Context, id Identity, tableNumber int, restaurantName, userName string) (*models.Table, error) {
	if restaurantName == "" {
		return nil, newError(KindMissingParameter, MsgRestaurantNameMissing)
	}
	if userName == "" {
		return nil, newError(KindMissingParameter, MsgUserNameMissing)
	}
	if err := authorizeRestaurant(ctx, s.db, id, restaurantName); err != nil {
		return nil, err
	}

	table, err := mutateTable(ctx, s.db, tableLookup(tableNumber, restaurantName), func(t *models.Table) (bool, error) {
		t.Assign(userName)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Table %d of %q blocked for %q", table.TableNumber, table.RestaurantName, userName)
	return table, nil
}

// UnblockTable releases the table's assignment.
func (s *TableService) UnblockTable(ctx context.Context, id Identity, tableNumber int, restaurantName string) (*models.Table, error) {
	if restaurantName == "" {
		return nil, newError(KindMissingParameter, MsgRestaurantNameMissing)
	}
	if err := authorizeRestaurant(ctx, s.db, id, restaurantName); err != nil {
		return nil, err
	}

	table, err := mutateTable(ctx, s.db, tableLookup(tableNumber, restaurantName), func(t *models.Table) (bool, error) {
		if !t.Blocked {
			return false, nil
		}
		t.Assign("")
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Table %d of %q unblocked", table.TableNumber, table.RestaurantName)
	return table, nil
}

// UnblockTablesForUser releases every table assigned to userName and
// returns how many were changed. Pass a transaction to make it part of a
// larger unit.
func UnblockTablesForUser(ctx context.Context, db *gorm.DB, userName string) (int64, error) {
	if userName == "" {
		return 0, nil
	}
	res := db.WithContext(ctx).Model(&models.Table{}).
		Where("assigned_user = ?", userName).
		Updates(map[string]interface{}{
			"assigned_user": "",
			"blocked":       false,
			"version":       gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

func tableExists(ctx context.Context, db *gorm.DB, tableNumber int, restaurantName string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Table{}).
		Where("table_number = ? AND restaurant_name = ?", tableNumber, restaurantName).
		Count(&count).Error
	return count > 0, err
}

type lookupFunc func(*gorm.DB) *gorm.DB

func tableLookup(tableNumber int, restaurantName string) lookupFunc {
	return func(db *gorm.DB) *gorm.DB {
		q := db.Where("table_number = ?", tableNumber)
		if restaurantName != "" {
			q = q.Where("restaurant_name = ?", restaurantName)
		}
		return q.Order("id")
	}
}

func tableByID(tableID uint) lookupFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", tableID)
	}
}

// mutateTable reads the table, applies fn and writes it back guarded by
// the version column. A write that lost against a concurrent writer is
// retried from a fresh read, so fn always validates against current state.
// fn returns false when nothing needs to be written.
func mutateTable(ctx context.Context, db *gorm.DB, lookup lookupFunc, fn func(*models.Table) (bool, error)) (*models.Table, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var table models.Table
		if err := lookup(db.WithContext(ctx)).First(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newError(KindNotFound, MsgTableNotFound)
			}
			return nil, internalError(err)
		}

		changed, err := fn(&table)
		if err != nil {
			return nil, err
		}
		if !changed {
			return &table, nil
		}

		saved, err := saveVersioned(ctx, db, &table)
		if err != nil {
			return nil, internalError(err)
		}
		if saved {
			return &table, nil
		}
		utils.InfoLogger.Printf("Table %d of %q changed concurrently, retrying (attempt %d)",
			table.TableNumber, table.RestaurantName, attempt+1)
	}
	return nil, newError(KindConflict, MsgConcurrentUpdate)
}

func saveVersioned(ctx context.Context, db *gorm.DB, t *models.Table) (bool, error) {
	if t.Reservations == nil {
		t.Reservations = datatypes.JSONSlice[models.Reservation]{}
	}
	t.Blocked = t.AssignedUser != ""

	res := db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ? AND version = ?", t.ID, t.Version).
		Updates(map[string]interface{}{
			"assigned_user": t.AssignedUser,
			"blocked":       t.Blocked,
			"reservations":  t.Reservations,
			"version":       t.Version + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	t.Version++
	return true, nil
}

// authorizeRestaurant lets owners touch only their own restaurants.
// Tables of restaurants that have no record yet are left to the caller.
func authorizeRestaurant(ctx context.Context, db *gorm.DB, id Identity, restaurantName string) error {
	if id.Role == "" {
		return nil
	}
	if !id.IsOwner() {
		return newError(KindForbidden, MsgForbidden)
	}
	var restaurant models.Restaurant
	err := db.WithContext(ctx).Where("name = ?", restaurantName).First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return internalError(err)
	}
	if !id.canManage(restaurant.OwnerName) {
		return newError(KindForbidden, MsgForbidden)
	}
	return nil
}

package services

import (
	"context"
	"slices"

	"gorm.io/gorm"

	"github.com/bookahead/backend/models"
)

// QueryService answers read-only table questions. An empty result is
// reported as NotFound, never as an empty list.
type QueryService struct {
	db *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// TablesByRestaurant lists the restaurant's tables ordered by number.
func (s *QueryService) TablesByRestaurant(ctx context.Context, restaurantName string) ([]models.Table, error) {
	if restaurantName == "" {
		return nil, newError(KindMissingParameter, MsgRestaurantNameMissing)
	}
	var tables []models.Table
	if err := s.db.WithContext(ctx).
		Where("restaurant_name = ?", restaurantName).
		Order("table_number, id").
		Find(&tables).Error; err != nil {
		return nil, internalError(err)
	}
	if len(tables) == 0 {
		return nil, newError(KindNotFound, MsgTablesNotFound)
	}
	return tables, nil
}

// BlockedTables lists the tables currently assigned to userName.
func (s *QueryService) BlockedTables(ctx context.Context, userName string) ([]models.Table, error) {
	if userName == "" {
		return nil, newError(KindMissingParameter, MsgUserNameMissing)
	}
	var tables []models.Table
	if err := s.db.WithContext(ctx).
		Where("assigned_user = ?", userName).
		Order("restaurant_name, table_number").
		Find(&tables).Error; err != nil {
		return nil, internalError(err)
	}
	if len(tables) == 0 {
		return nil, newError(KindNotFound, MsgTablesNotFound)
	}
	return tables, nil
}

// UserReservations flattens every reservation held by userName into
// single-reservation table projections.
func (s *QueryService) UserReservations(ctx context.Context, userName string) ([]models.Table, error) {
	if userName == "" {
		return nil, newError(KindMissingParameter, MsgUserNameMissing)
	}
	var tables []models.Table
	if err := s.db.WithContext(ctx).Order("restaurant_name, table_number").Find(&tables).Error; err != nil {
		return nil, internalError(err)
	}
	projected := slices.Collect(ReservationsOf(tables, userName))
	if len(projected) == 0 {
		return nil, newError(KindNotFound, MsgTablesNotFound)
	}
	return projected, nil
}

// WeeklyReservations returns the restaurant's reservations between two
// YYYY-MM-DD dates, one projection per reservation. A restaurant without
// tables is NotFound; a week without reservations is an empty list.
func (s *QueryService) WeeklyReservations(ctx context.Context, restaurantName, startDate, endDate string) ([]models.Table, error) {
	if restaurantName == "" {
		return nil, newError(KindMissingParameter, MsgRestaurantNameMissing)
	}
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, newError(KindInvalidDate, MsgInvalidDate)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, newError(KindInvalidDate, MsgInvalidDate)
	}
	if end.Before(start) {
		return nil, newError(KindInvalidDate, MsgDateRangeReversed)
	}

	tables, err := s.TablesByRestaurant(ctx, restaurantName)
	if err != nil {
		return nil, err
	}
	projected := slices.Collect(FilterReservationsByWeek(tables, start, end))
	if projected == nil {
		projected = []models.Table{}
	}
	return projected, nil
}

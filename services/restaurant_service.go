package services

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookahead/backend/models"
	"github.com/bookahead/backend/utils"
)

// RestaurantService manages restaurants, their floor plans and the
// cascade that removes a restaurant's tables.
type RestaurantService struct {
	db    *gorm.DB
	cache RestaurantCache
}

// NewRestaurantService builds the service; cache may be nil.
func NewRestaurantService(db *gorm.DB, cache RestaurantCache) *RestaurantService {
	return &RestaurantService{db: db, cache: cache}
}

type AddRestaurantInput struct {
	Name         string
	Description  string
	OpeningHours string
	Stars        int
	Address      string
	PhoneNumber  string
	OwnerName    string
	Images       []string
	MenuImages   []string
}

func (s *RestaurantService) AddRestaurant(ctx context.Context, id Identity, in AddRestaurantInput) (*models.Restaurant, error) {
	if id.IsOwner() && in.OwnerName == "" {
		in.OwnerName = id.Name
	}
	if in.Name == "" || in.Description == "" || in.OpeningHours == "" ||
		in.Address == "" || in.PhoneNumber == "" || in.OwnerName == "" {
		return nil, newError(KindMissingParameter, MsgMissingFields)
	}
	if in.Stars < 0 || in.Stars > 5 {
		return nil, newError(KindInvalidInput, MsgInvalidStars)
	}
	if !id.canManage(in.OwnerName) {
		return nil, newError(KindForbidden, MsgForbidden)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("name = ?", in.Name).Count(&count).Error; err != nil {
		return nil, internalError(err)
	}
	if count > 0 {
		return nil, newError(KindConflict, MsgRestaurantExists)
	}

	restaurant := models.Restaurant{
		Name:         in.Name,
		Description:  in.Description,
		OpeningHours: in.OpeningHours,
		Stars:        in.Stars,
		Address:      in.Address,
		PhoneNumber:  in.PhoneNumber,
		OwnerName:    in.OwnerName,
		Images:       stringList(in.Images),
		MenuImages:   stringList(in.MenuImages),
	}
	if err := s.db.WithContext(ctx).Create(&restaurant).Error; err != nil {
		return nil, internalError(err)
	}
	s.invalidate(ctx)

	utils.InfoLogger.Printf("Restaurant %q added by owner %q", restaurant.Name, restaurant.OwnerName)
	return &restaurant, nil
}

// RestaurantsByOwner lists an owner's restaurants; none is NotFound.
func (s *RestaurantService) RestaurantsByOwner(ctx context.Context, ownerName string) ([]models.Restaurant, error) {
	if ownerName == "" {
		return nil, newError(KindMissingParameter, MsgOwnerNameMissing)
	}
	var restaurants []models.Restaurant
	if err := s.db.WithContext(ctx).Where("owner_name = ?", ownerName).Order("name").Find(&restaurants).Error; err != nil {
		return nil, internalError(err)
	}
	if len(restaurants) == 0 {
		return nil, newError(KindNotFound, MsgRestaurantsNotFound)
	}
	return restaurants, nil
}

// ListRestaurants returns every restaurant, served from the cache when possible.
func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var generation uint64
	if s.cache != nil {
		cached, gen, ok := s.cache.GetAll(ctx)
		if ok {
			return cached, nil
		}
		generation = gen
	}
	restaurants := []models.Restaurant{}
	if err := s.db.WithContext(ctx).Order("name").Find(&restaurants).Error; err != nil {
		return nil, internalError(err)
	}
	if s.cache != nil {
		s.cache.SetAll(ctx, generation, restaurants)
	}
	return restaurants, nil
}

func (s *RestaurantService) GetRestaurant(ctx context.Context, name string) (*models.Restaurant, error) {
	if name == "" {
		return nil, newError(KindMissingParameter, MsgRestaurantNameMissing)
	}
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, MsgRestaurantNotFound)
		}
		return nil, internalError(err)
	}
	return &restaurant, nil
}

// DeleteRestaurant removes the restaurant together with every table and
// the floor plan carrying its name, all in one transaction. It returns the
// number of tables removed.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, id Identity, name string) (int64, error) {
	if name == "" {
		return 0, newError(KindMissingParameter, MsgRestaurantNameMissing)
	}

	var tablesDeleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.Where("name = ?", name).First(&restaurant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, MsgRestaurantNotFound)
			}
			return internalError(err)
		}
		if !id.canManage(restaurant.OwnerName) {
			return newError(KindForbidden, MsgForbidden)
		}

		if err := tx.Delete(&restaurant).Error; err != nil {
			return internalError(err)
		}
		res := tx.Where("restaurant_name = ?", name).Delete(&models.Table{})
		if res.Error != nil {
			return internalError(res.Error)
		}
		tablesDeleted = res.RowsAffected
		if err := tx.Where("restaurant_name = ?", name).Delete(&models.FloorPlan{}).Error; err != nil {
			return internalError(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)

	utils.InfoLogger.Printf("Restaurant %q deleted with %d tables", name, tablesDeleted)
	return tablesDeleted, nil
}

// SaveFloorPlan stores or replaces the floor-plan image reference of a restaurant.
func (s *RestaurantService) SaveFloorPlan(ctx context.Context, id Identity, restaurantName, imageURL string) (*models.FloorPlan, error) {
	if restaurantName == "" || imageURL == "" {
		return nil, newError(KindMissingParameter, MsgMissingFields)
	}
	if err := authorizeRestaurant(ctx, s.db, id, restaurantName); err != nil {
		return nil, err
	}

	plan := models.FloorPlan{RestaurantName: restaurantName, ImageURL: imageURL}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "restaurant_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"image_url", "updated_at"}),
	}).Create(&plan).Error
	if err != nil {
		return nil, internalError(err)
	}
	return s.FloorPlan(ctx, restaurantName)
}

func (s *RestaurantService) FloorPlan(ctx context.Context, restaurantName string) (*models.FloorPlan, error) {
	var plan models.FloorPlan
	if err := s.db.WithContext(ctx).Where("restaurant_name = ?", restaurantName).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, MsgImageNotFound)
		}
		return nil, internalError(err)
	}
	return &plan, nil
}

func (s *RestaurantService) DeleteFloorPlan(ctx context.Context, id Identity, restaurantName string) error {
	if err := authorizeRestaurant(ctx, s.db, id, restaurantName); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("restaurant_name = ?", restaurantName).Delete(&models.FloorPlan{})
	if res.Error != nil {
		return internalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return newError(KindNotFound, MsgImageNotFound)
	}
	return nil
}

func (s *RestaurantService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func stringList(values []string) datatypes.JSONSlice[string] {
	if values == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](values)
}

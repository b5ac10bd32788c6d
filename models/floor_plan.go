package models

import "time"

// FloorPlan references the uploaded floor-plan image of a restaurant.
type FloorPlan struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RestaurantName string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"restaurantName"`
	ImageURL       string    `gorm:"type:varchar(500);not null" json:"imageUrl"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null" json:"updatedAt"`
}

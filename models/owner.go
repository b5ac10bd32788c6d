package models

import "time"

// Owner is the account of a restaurant owner. RestaurantName is the
// display name stored as OwnerName on the owner's restaurants and carried
// in the owner's token, so it is unique.
type Owner struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RestaurantName string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"restaurantName"`
	Address        string    `gorm:"type:varchar(100);not null" json:"address"`
	PostalCode     string    `gorm:"type:varchar(10);not null" json:"postalCode"`
	City           string    `gorm:"type:varchar(50);not null" json:"city"`
	PhoneNumber    string    `gorm:"type:varchar(15);not null" json:"phoneNumber"`
	Email          string    `gorm:"type:varchar(200);unique;not null" json:"email"`
	Password       string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

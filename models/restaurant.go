package models

import (
	"time"

	"gorm.io/datatypes"
)

type Restaurant struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Name         string                      `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	OpeningHours string                      `gorm:"type:varchar(100);not null" json:"openingHours"`
	Stars        int                         `gorm:"not null;default:0" json:"stars"`
	Address      string                      `gorm:"type:varchar(255);not null" json:"address"`
	PhoneNumber  string                      `gorm:"type:varchar(50);not null" json:"phoneNumber"`
	OwnerName    string                      `gorm:"type:varchar(100);not null;index" json:"ownerName"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	MenuImages   datatypes.JSONSlice[string] `json:"menuImages"`
	CreatedAt    time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time                   `gorm:"not null" json:"updatedAt"`
}

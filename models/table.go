package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Table struct {
	ID             uint                             `gorm:"primaryKey" json:"id"`
	TableNumber    int                              `gorm:"not null;uniqueIndex:idx_table_restaurant" json:"tableNumber"`
	RestaurantName string                           `gorm:"type:varchar(100);not null;uniqueIndex:idx_table_restaurant" json:"restaurantName"`
	AssignedUser   string                           `gorm:"type:varchar(255);not null;default:'';index" json:"assignedUser"`
	Blocked        bool                             `gorm:"not null;default:false" json:"blocked"`
	Reservations   datatypes.JSONSlice[Reservation] `json:"reservations"`
	Version        uint                             `gorm:"not null;default:0" json:"version"`
	CreatedAt      time.Time                        `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time                        `gorm:"not null" json:"updatedAt"`
}

// Assign holds the table for userName; an empty name releases it.
func (t *Table) Assign(userName string) {
	t.AssignedUser = userName
	t.Blocked = userName != ""
}

// BeforeSave keeps Blocked derived from AssignedUser.
func (t *Table) BeforeSave(tx *gorm.DB) error {
	t.Blocked = t.AssignedUser != ""
	if t.Reservations == nil {
		t.Reservations = datatypes.JSONSlice[Reservation]{}
	}
	return nil
}

// HasReservationOn reports whether any reservation falls on date.
func (t *Table) HasReservationOn(date string) bool {
	for _, r := range t.Reservations {
		if r.ReservationDate == date {
			return true
		}
	}
	return false
}

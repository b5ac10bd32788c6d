package models

import "time"

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	LastName   string    `gorm:"type:varchar(255);not null" json:"lastName"`
	Email      string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	IsVerified bool      `gorm:"not null;default:false" json:"isVerified"`
	EmailToken *string   `gorm:"type:varchar(64);index" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

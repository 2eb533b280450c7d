package models

import "time"

// User & auth related models
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;index"`
	Email     string `gorm:"unique;not null;index"`
	Password  string `gorm:"not null" json:"-"` // bcrypt hash
	Role      string `gorm:"not null;default:'operador'"` // admin, operador
	CreatedAt time.Time
	UpdatedAt time.Time
}

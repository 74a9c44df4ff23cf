package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email" gorm:"unique;not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	Role         string         `json:"role" gorm:"default:'farmer'"` // farmer, company, admin
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type UserRole string

const (
	RoleFarmer  UserRole = "farmer"
	RoleCompany UserRole = "company"
	RoleAdmin   UserRole = "admin"
)

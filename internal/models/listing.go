package models

import (
	"time"

	"gorm.io/gorm"
)

type Listing struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CompanyID   uint           `json:"company_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       *float64       `json:"price"` // nil means price on request
	ListingType string         `json:"listing_type" gorm:"default:'service'"` // service, product
	PestTags    []string       `json:"pest_tags" gorm:"serializer:json"`
	ImagePath   string         `json:"image_path"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type ListingType string

const (
	ListingService ListingType = "service"
	ListingProduct ListingType = "product"
)

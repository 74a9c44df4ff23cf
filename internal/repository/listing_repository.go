package repository

import (
	"pest_marketplace/internal/models"

	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(id uint) (*models.Listing, error)
	GetByCompanyID(companyID uint) ([]models.Listing, error)
	GetActive() ([]models.Listing, error)
	Update(listing *models.Listing) error
	Delete(id uint) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(listing *models.Listing) error {
	return r.db.Create(listing).Error
}

func (r *listingRepository) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) GetByCompanyID(companyID uint) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Where("company_id = ?", companyID).Find(&listings).Error
	return listings, err
}

func (r *listingRepository) GetActive() ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Where("is_active = ?", true).Find(&listings).Error
	return listings, err
}

func (r *listingRepository) Update(listing *models.Listing) error {
	return r.db.Save(listing).Error
}

func (r *listingRepository) Delete(id uint) error {
	return r.db.Delete(&models.Listing{}, id).Error
}

package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/repository"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingService interface {
	CreateListing(listing *models.Listing) error
	GetListingByID(id uint) (*models.Listing, error)
	GetPublicListings(search, listingType string) ([]models.Listing, error)
	GetCompanyListings(companyID uint) ([]models.Listing, error)
	UpdateListing(listing *models.Listing, companyID uint) error
	DeleteListing(id, companyID uint) error
	AttachImage(id, companyID uint, file *multipart.FileHeader) (string, error)
}

type listingService struct {
	listingRepo repository.ListingRepository
	uploadDir   string
}

func NewListingService(listingRepo repository.ListingRepository, uploadDir string) ListingService {
	return &listingService{listingRepo: listingRepo, uploadDir: uploadDir}
}

func (s *listingService) CreateListing(listing *models.Listing) error {
	if listing.Price != nil && *listing.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.listingRepo.Create(listing)
}

func (s *listingService) GetListingByID(id uint) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

// GetPublicListings returns active listings only, filtered by a
// case-insensitive title/pest-tag search and an exact type match.
func (s *listingService) GetPublicListings(search, listingType string) ([]models.Listing, error) {
	listings, err := s.listingRepo.GetActive()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(search)
	filtered := make([]models.Listing, 0, len(listings))
	for _, listing := range listings {
		if listingType != "" && listing.ListingType != listingType {
			continue
		}
		if needle != "" && !matchesListing(listing, needle) {
			continue
		}
		filtered = append(filtered, listing)
	}
	return filtered, nil
}

func (s *listingService) GetCompanyListings(companyID uint) ([]models.Listing, error) {
	return s.listingRepo.GetByCompanyID(companyID)
}

func (s *listingService) UpdateListing(listing *models.Listing, companyID uint) error {
	existing, err := s.GetListingByID(listing.ID)
	if err != nil {
		return err
	}
	if existing.CompanyID != companyID {
		return ErrForbidden
	}
	if listing.Price != nil && *listing.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}

	listing.CompanyID = existing.CompanyID
	listing.CreatedAt = existing.CreatedAt
	if listing.ImagePath == "" {
		listing.ImagePath = existing.ImagePath
	}
	return s.listingRepo.Update(listing)
}

func (s *listingService) DeleteListing(id, companyID uint) error {
	existing, err := s.GetListingByID(id)
	if err != nil {
		return err
	}
	if existing.CompanyID != companyID {
		return ErrForbidden
	}
	return s.listingRepo.Delete(id)
}

// AttachImage decodes the upload, saves a re-encoded original plus a 300px
// thumbnail under the upload directory, and stores the image reference on
// the listing.
func (s *listingService) AttachImage(id, companyID uint, file *multipart.FileHeader) (string, error) {
	listing, err := s.GetListingByID(id)
	if err != nil {
		return "", err
	}
	if listing.CompanyID != companyID {
		return "", ErrForbidden
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	fileName := uuid.NewString() + ".jpg"
	originalPath := filepath.Join(s.uploadDir, fileName)
	thumbDir := filepath.Join(s.uploadDir, "thumb")
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := imaging.Save(img, originalPath); err != nil {
		return "", fmt.Errorf("failed to save original image: %w", err)
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	listing.ImagePath = "/uploads/" + fileName
	if err := s.listingRepo.Update(listing); err != nil {
		return "", err
	}
	return listing.ImagePath, nil
}

func matchesListing(listing models.Listing, needle string) bool {
	if strings.Contains(strings.ToLower(listing.Title), needle) {
		return true
	}
	for _, tag := range listing.PestTags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

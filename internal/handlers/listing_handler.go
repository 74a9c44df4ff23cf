package handlers

import (
	"errors"
	"net/http"
	"pest_marketplace/internal/middleware"
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingService services.ListingService
}

func NewListingHandler(listingService services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

type ListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	ListingType string   `json:"listing_type" binding:"omitempty,oneof=service product"`
	PestTags    []string `json:"pest_tags"`
	IsActive    *bool    `json:"is_active"`
}

// PublicList returns active listings for farmers browsing the marketplace.
func (h *ListingHandler) PublicList(c *gin.Context) {
	listings, err := h.listingService.GetPublicListings(c.Query("search"), c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (h *ListingHandler) CompanyList(c *gin.Context) {
	listings, err := h.listingService.GetCompanyListings(middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (h *ListingHandler) Create(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	listingType := req.ListingType
	if listingType == "" {
		listingType = string(models.ListingService)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	listing := &models.Listing{
		CompanyID:   middleware.CurrentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ListingType: listingType,
		PestTags:    req.PestTags,
		IsActive:    active,
	}

	if err := h.listingService.CreateListing(listing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"listing": listing})
}

func (h *ListingHandler) Update(c *gin.Context) {
	id, err := parseListingID(c)
	if err != nil {
		return
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	existing, err := h.listingService.GetListingByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.Price = req.Price
	if req.ListingType != "" {
		existing.ListingType = req.ListingType
	}
	existing.PestTags = req.PestTags
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := h.listingService.UpdateListing(existing, middleware.CurrentUserID(c)); err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": existing})
}

func (h *ListingHandler) Delete(c *gin.Context) {
	id, err := parseListingID(c)
	if err != nil {
		return
	}

	if err := h.listingService.DeleteListing(id, middleware.CurrentUserID(c)); err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ListingHandler) UploadImage(c *gin.Context) {
	id, err := parseListingID(c)
	if err != nil {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}

	path, err := h.listingService.AttachImage(id, middleware.CurrentUserID(c), file)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_path": path})
}

func parseListingID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return 0, err
	}
	return uint(id), nil
}

func respondListingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Listing operation failed"})
	}
}

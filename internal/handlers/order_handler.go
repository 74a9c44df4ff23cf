package handlers

import (
	"errors"
	"net/http"
	"pest_marketplace/internal/middleware"
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/services"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService services.OrderService
	userService  services.UserService
	listings     services.ListingService
}

func NewOrderHandler(orderService services.OrderService, userService services.UserService, listings services.ListingService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		userService:  userService,
		listings:     listings,
	}
}

type CreateOrderRequest struct {
	ListingID   uint   `json:"listing_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"omitempty,gte=1"`
	ServiceDate string `json:"service_date"`
	Notes       string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	farmer, err := h.userService.GetUserByID(middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	listing, err := h.listings.GetListingByID(req.ListingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if !listing.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Listing is not available"})
		return
	}

	company, err := h.userService.GetUserByID(listing.CompanyID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var serviceDate *time.Time
	if req.ServiceDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ServiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service date, expected YYYY-MM-DD"})
			return
		}
		serviceDate = &parsed
	}

	order, err := h.orderService.PlaceOrder(farmer, listing, company.Name, req.Quantity, serviceDate, req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *OrderHandler) List(c *gin.Context) {
	query := services.OrderQuery{
		Search:         c.Query("search"),
		IncludeHistory: c.Query("history") == "true",
	}

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter"})
			return
		}
		query.Status = status
	}

	orders, err := h.orderService.VisibleOrders(middleware.CurrentRole(c), middleware.CurrentEmail(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.orderService.GetOrder(id, middleware.CurrentRole(c), middleware.CurrentEmail(c))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	requested, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	order, err := h.orderService.Transition(id, requested, middleware.CurrentRole(c), middleware.CurrentEmail(c))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	role := middleware.CurrentRole(c)
	companyName := ""
	if role == models.RoleCompany {
		user, err := h.userService.GetUserByID(middleware.CurrentUserID(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}
		companyName = user.Name
	}

	if err := h.orderService.Purge(id, role, middleware.CurrentEmail(c), companyName); err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *OrderHandler) PendingCount(c *gin.Context) {
	count, err := h.orderService.PendingCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pending count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending_count": count})
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Status transition not allowed"})
	case errors.Is(err, services.ErrNotTerminal):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order operation failed"})
	}
}

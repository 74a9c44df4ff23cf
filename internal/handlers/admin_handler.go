package handlers

import (
	"net/http"
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userService  services.UserService
	orderService services.OrderService
}

func NewAdminHandler(userService services.UserService, orderService services.OrderService) *AdminHandler {
	return &AdminHandler{userService: userService, orderService: orderService}
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role" binding:"omitempty,oneof=farmer company admin"`
	IsActive *bool  `json:"is_active"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var (
		users []models.User
		err   error
	)
	if role := c.Query("role"); role != "" {
		if models.UserRole(role) != models.RoleFarmer &&
			models.UserRole(role) != models.RoleCompany &&
			models.UserRole(role) != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role filter"})
			return
		}
		users, err = h.userService.GetUsersByRole(role)
	} else {
		users, err = h.userService.GetAllUsers()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.userService.GetUserByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.userService.UpdateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := h.userService.DeleteUser(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) Reports(c *gin.Context) {
	report, err := h.orderService.BuildReport()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

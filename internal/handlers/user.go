package handlers

import (
	"strconv"

	"github.com/coalhq/coal-server/internal/config"
	"github.com/coalhq/coal-server/internal/services"
	"github.com/coalhq/coal-server/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService    *services.UserService
	libraryService *services.LibraryService
	reviewService  *services.ReviewService
}

func NewUserHandler(db *gorm.DB, jwtCfg *config.JWTConfig) *UserHandler {
	return &UserHandler{
		userService:    services.NewUserService(db, jwtCfg),
		libraryService: services.NewLibraryService(db),
		reviewService:  services.NewReviewService(db),
	}
}

// Register creates a new account
// POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, user)
}

// Login authenticates with email and password
// POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.Login(&req)
	if err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	response.Success(c, resp)
}

// GetByID returns a user by ID
// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, user)
}

// GetProfile returns a user with library and review counts
// GET /api/users/:id/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	profile, err := h.userService.GetProfile(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, profile)
}

// GetLibrary returns the user's library, optionally filtered by status
// GET /api/users/:id/library
func (h *UserHandler) GetLibrary(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	status := c.Query("status")
	limit, offset := pagination(c, 50)

	library, err := h.libraryService.ListByUser(id, status, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, library)
}

// GetReviews returns reviews written by a user
// GET /api/users/:id/reviews
func (h *UserHandler) GetReviews(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	limit, offset := pagination(c, 20)

	reviews, err := h.reviewService.ListByUser(id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reviews)
}

// List returns all accounts, newest first. Admin only.
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	limit, offset := pagination(c, 50)
	users, err := h.userService.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, users)
}

// Search finds users by partial username
// GET /api/users/search?q=...
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "query parameter q is required")
		return
	}

	limit, _ := pagination(c, 5)
	users, err := h.userService.SearchByUsername(q, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, users)
}

// Update applies a partial update to a user
// PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, user)
}

// Delete removes a user account and its dependent records
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.userService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "user deleted"})
}

// parseID reads a uint path parameter.
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}

// pagination reads limit/offset query parameters with a default limit.
func pagination(c *gin.Context, defaultLimit int) (int, int) {
	limit := defaultLimit
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	offset := 0
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

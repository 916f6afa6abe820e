package handlers

import (
	"github.com/coalhq/coal-server/internal/services"
	"github.com/coalhq/coal-server/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StudioHandler struct {
	studioService *services.StudioService
	reviewService *services.ReviewService
}

func NewStudioHandler(db *gorm.DB) *StudioHandler {
	return &StudioHandler{
		studioService: services.NewStudioService(db),
		reviewService: services.NewReviewService(db),
	}
}

// Create registers a new studio
// POST /api/studios
func (h *StudioHandler) Create(c *gin.Context) {
	var req services.CreateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	studio, err := h.studioService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, studio)
}

// List returns studios ordered by name
// GET /api/studios
func (h *StudioHandler) List(c *gin.Context) {
	limit, offset := pagination(c, 50)
	studios, err := h.studioService.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, studios)
}

// GetByID returns a studio with its game count
// GET /api/studios/:id
func (h *StudioHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid studio id")
		return
	}

	detail, err := h.studioService.GetDetail(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, detail)
}

// Games returns a studio's games, newest release first
// GET /api/studios/:id/games
func (h *StudioHandler) Games(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid studio id")
		return
	}

	limit, offset := pagination(c, 50)
	games, err := h.studioService.Games(id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, games)
}

// Reviews returns reviews tagged with this studio at authoring time
// GET /api/studios/:id/reviews
func (h *StudioHandler) Reviews(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid studio id")
		return
	}

	if _, err := h.studioService.GetByID(id); err != nil {
		respondError(c, err)
		return
	}

	limit, offset := pagination(c, 20)
	reviews, err := h.reviewService.ListByStudio(id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reviews)
}

// Update applies a partial update
// PATCH /api/studios/:id
func (h *StudioHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid studio id")
		return
	}

	var req services.UpdateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	studio, err := h.studioService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, studio)
}

// Delete removes a studio; its games stay behind with studio_id cleared
// DELETE /api/studios/:id
func (h *StudioHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid studio id")
		return
	}

	if err := h.studioService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "studio deleted"})
}

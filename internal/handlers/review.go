package handlers

import (
	"github.com/coalhq/coal-server/internal/services"
	"github.com/coalhq/coal-server/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{
		reviewService: services.NewReviewService(db),
	}
}

// Create submits a review for a game
// POST /api/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.reviewService.GetByID(review.ID)
	if err != nil {
		response.Created(c, review)
		return
	}
	response.Created(c, detail)
}

// GetByID returns a single review with author and game names
// GET /api/reviews/:id
func (h *ReviewHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	review, err := h.reviewService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, review)
}

// ByGame returns a game's reviews with the rating aggregate
// GET /api/reviews/game/:game_id
func (h *ReviewHandler) ByGame(c *gin.Context) {
	gameID, err := parseID(c, "game_id")
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}

	limit, offset := pagination(c, 20)
	resp, err := h.reviewService.ListByGame(gameID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// ByUser returns a user's reviews
// GET /api/reviews/user/:user_id
func (h *ReviewHandler) ByUser(c *gin.Context) {
	userID, err := parseID(c, "user_id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	limit, offset := pagination(c, 20)
	resp, err := h.reviewService.ListByUser(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// Update modifies rating or text on a review
// PATCH /api/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	var req services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, review)
}

// Delete removes a review
// DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	if err := h.reviewService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "review deleted"})
}

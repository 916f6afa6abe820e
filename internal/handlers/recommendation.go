package handlers

import (
	"strconv"

	"github.com/coalhq/coal-server/internal/services"
	"github.com/coalhq/coal-server/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RecommendationHandler struct {
	recommendService *services.RecommendationService
}

func NewRecommendationHandler(db *gorm.DB) *RecommendationHandler {
	return &RecommendationHandler{
		recommendService: services.NewRecommendationService(db),
	}
}

// ForUser returns tag-based game suggestions for a user
// GET /api/recommendations/:user_id?limit=10
func (h *RecommendationHandler) ForUser(c *gin.Context) {
	userID, err := parseID(c, "user_id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	limit := 10
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}

	games, err := h.recommendService.ForUser(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"user_id": userID, "recommendations": games})
}

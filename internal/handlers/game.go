package handlers

import (
	"github.com/coalhq/coal-server/internal/config"
	"github.com/coalhq/coal-server/internal/services"
	"github.com/coalhq/coal-server/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GameHandler struct {
	catalogService *services.CatalogService
	reviewService  *services.ReviewService
	uploadService  *services.UploadService
}

func NewGameHandler(db *gorm.DB, storageCfg *config.StorageConfig) *GameHandler {
	return &GameHandler{
		catalogService: services.NewCatalogService(db),
		reviewService:  services.NewReviewService(db),
		uploadService:  services.NewUploadService(storageCfg),
	}
}

// Create adds a game to the catalog
// POST /api/games
func (h *GameHandler) Create(c *gin.Context) {
	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	game, err := h.catalogService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, game)
}

// List returns the published catalog, newest first
// GET /api/games
func (h *GameHandler) List(c *gin.Context) {
	limit, offset := pagination(c, 20)
	games, err := h.catalogService.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, games)
}

// Search filters the catalog; one filter dimension per query
// GET /api/games/search
func (h *GameHandler) Search(c *gin.Context) {
	var req services.SearchGamesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.catalogService.Search(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	for i := range resp.Games {
		if resp.Games[i].Thumbnail != "" {
			resp.Games[i].Thumbnail = h.uploadService.PublicURL(resp.Games[i].Thumbnail)
		}
	}

	response.Success(c, resp)
}

// GetByID returns a game with rating aggregate and owner count
// GET /api/games/:id
func (h *GameHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}

	detail, err := h.catalogService.GetDetail(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if detail.Thumbnail != "" {
		detail.Thumbnail = h.uploadService.PublicURL(detail.Thumbnail)
	}

	response.Success(c, detail)
}

// Reviews returns reviews for a game plus the current aggregate
// GET /api/games/:id/reviews
func (h *GameHandler) Reviews(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}

	limit, offset := pagination(c, 20)
	reviews, err := h.reviewService.ListByGame(id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reviews)
}

// Update applies a partial update
// PATCH /api/games/:id
func (h *GameHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}

	var req services.UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	game, err := h.catalogService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, game)
}

// UploadThumbnail stores a thumbnail image and records its reference
// POST /api/games/:id/thumbnail
func (h *GameHandler) UploadThumbnail(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}

	if _, err := h.catalogService.GetByID(id); err != nil {
		respondError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	ref, err := h.uploadService.SaveImage(file)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.catalogService.SetThumbnail(id, ref); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"thumbnail": h.uploadService.PublicURL(ref)})
}

// Delete removes a game and its dependent records
// DELETE /api/games/:id
func (h *GameHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return
	}

	if err := h.catalogService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "game deleted"})
}

package handlers

import (
	"github.com/coalhq/coal-server/internal/services"
	"github.com/coalhq/coal-server/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LibraryHandler struct {
	libraryService *services.LibraryService
}

func NewLibraryHandler(db *gorm.DB) *LibraryHandler {
	return &LibraryHandler{
		libraryService: services.NewLibraryService(db),
	}
}

// Acquire adds a game to a user's library
// POST /api/library
func (h *LibraryHandler) Acquire(c *gin.Context) {
	var req services.AcquireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.libraryService.Acquire(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, entry)
}

// Get returns a user's library with optional status filter
// GET /api/library/:user_id
func (h *LibraryHandler) Get(c *gin.Context) {
	userID, err := parseID(c, "user_id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	status := c.Query("status")
	limit, offset := pagination(c, 50)

	library, err := h.libraryService.ListByUser(userID, status, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, library)
}

// Loaned lists the user's entries currently on loan
// GET /api/library/:user_id/loaned
func (h *LibraryHandler) Loaned(c *gin.Context) {
	userID, err := parseID(c, "user_id")
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	entries, err := h.libraryService.Loaned(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"user_id": userID, "loaned_games": entries})
}

// Update changes status or loan fields on a library entry
// PATCH /api/library/entry/:id
func (h *LibraryHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}

	var req services.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.libraryService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, entry)
}

// AddPlaytime accumulates hours onto an entry
// POST /api/library/entry/:id/playtime
func (h *LibraryHandler) AddPlaytime(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}

	var req services.PlaytimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.libraryService.AddPlaytime(id, req.Hours)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, entry)
}

// Remove deletes a library entry
// DELETE /api/library/entry/:id
func (h *LibraryHandler) Remove(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}

	if err := h.libraryService.Remove(id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "removed from library"})
}

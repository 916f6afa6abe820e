package services

import (
	"errors"
	"strings"
	"time"

	"github.com/coalhq/coal-server/internal/models"
	"gorm.io/gorm"
)

// CatalogService owns the public game catalog: CRUD, listing, search and
// the per-game detail view. Public listings only show published games
// (studio_id NOT NULL); unpublished entries stay visible to their studio
// and through direct id lookups.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type CreateGameRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Genre       string     `json:"genre"`
	Developer   string     `json:"developer"`
	ReleaseDate *time.Time `json:"release_date"`
	Platform    string     `json:"platform"`
	Tags        []string   `json:"tags"`
	Description string     `json:"description"`
	Price       *float64   `json:"price"`
	StudioID    *uint      `json:"studio_id"`
}

type UpdateGameRequest struct {
	Title       string     `json:"title"`
	Genre       string     `json:"genre"`
	Developer   string     `json:"developer"`
	ReleaseDate *time.Time `json:"release_date"`
	Platform    string     `json:"platform"`
	Tags        []string   `json:"tags"`
	Description string     `json:"description"`
	Price       *float64   `json:"price"`
	StudioID    *uint      `json:"studio_id"`
	ClearStudio bool       `json:"clear_studio"`
}

type SearchGamesRequest struct {
	Query    string `form:"q"`
	Genre    string `form:"genre"`
	Platform string `form:"platform"`
	StudioID *uint  `form:"studio_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type SearchGamesResponse struct {
	Games    []models.Game `json:"games"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type GameDetail struct {
	models.Game
	AverageRating *float64 `json:"average_rating"`
	TotalReviews  int64    `json:"total_reviews"`
	TotalOwners   int64    `json:"total_owners"`
}

func (s *CatalogService) Create(req *CreateGameRequest) (*models.Game, error) {
	var count int64
	s.db.Model(&models.Game{}).Where("title = ?", req.Title).Count(&count)
	if count > 0 {
		return nil, conflict("game with this title already exists")
	}

	if req.StudioID != nil {
		var studios int64
		s.db.Model(&models.Studio{}).Where("id = ?", *req.StudioID).Count(&studios)
		if studios == 0 {
			return nil, notFound("studio")
		}
	}

	game := models.Game{
		Title:       req.Title,
		Genre:       req.Genre,
		Developer:   req.Developer,
		ReleaseDate: req.ReleaseDate,
		Platform:    req.Platform,
		Description: req.Description,
		Price:       req.Price,
		StudioID:    req.StudioID,
	}
	game.SetTagList(req.Tags)

	if err := s.db.Create(&game).Error; err != nil {
		return nil, translateStoreError(err, "game with this title already exists")
	}
	return &game, nil
}

func (s *CatalogService) GetByID(id uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("game")
		}
		return nil, err
	}
	return &game, nil
}

// GetDetail returns the game with its rating aggregate and owner count.
// AverageRating is nil, not zero, when the game has no reviews.
func (s *CatalogService) GetDetail(id uint) (*GameDetail, error) {
	game, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	detail := GameDetail{Game: *game}
	reviews := NewReviewService(s.db)
	detail.AverageRating, err = reviews.AverageForGame(id)
	if err != nil {
		return nil, err
	}
	detail.TotalReviews, err = reviews.CountByGame(id)
	if err != nil {
		return nil, err
	}
	s.db.Model(&models.Ownership{}).Where("game_id = ?", id).Count(&detail.TotalOwners)
	return &detail, nil
}

// Search applies at most one filter dimension per query, first present
// wins: title query, then genre, then platform, then studio, then the plain
// published listing. This mirrors the behavior the frontend depends on;
// filters do not combine.
func (s *CatalogService) Search(req *SearchGamesRequest) (*SearchGamesResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	var games []models.Game
	var err error

	published := s.db.Where("studio_id IS NOT NULL")

	switch {
	case req.Query != "":
		err = published.Where("LOWER(title) LIKE ?", likePattern(req.Query)).
			Order("title").Limit(pageSize).Offset(offset).Find(&games).Error
	case req.Genre != "":
		err = published.Where("LOWER(genre) LIKE ?", likePattern(req.Genre)).
			Order("title").Limit(pageSize).Offset(offset).Find(&games).Error
	case req.Platform != "":
		err = published.Where("LOWER(platform) LIKE ?", likePattern(req.Platform)).
			Order("title").Limit(pageSize).Offset(offset).Find(&games).Error
	case req.StudioID != nil:
		err = s.db.Where("studio_id = ?", *req.StudioID).
			Order("release_date DESC").Limit(pageSize).Offset(offset).Find(&games).Error
	default:
		err = published.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&games).Error
	}
	if err != nil {
		return nil, err
	}

	var total int64
	s.db.Model(&models.Game{}).Where("studio_id IS NOT NULL").Count(&total)

	return &SearchGamesResponse{
		Games:    games,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// List is the plain published catalog listing, newest first.
func (s *CatalogService) List(limit, offset int) ([]models.Game, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var games []models.Game
	err := s.db.Where("studio_id IS NOT NULL").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&games).Error
	return games, err
}

func (s *CatalogService) Update(id uint, req *UpdateGameRequest) (*models.Game, error) {
	game, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Title != "" && req.Title != game.Title {
		var count int64
		s.db.Model(&models.Game{}).Where("title = ? AND id <> ?", req.Title, id).Count(&count)
		if count > 0 {
			return nil, conflict("game with this title already exists")
		}
		updates["title"] = req.Title
	}
	if req.Genre != "" {
		updates["genre"] = req.Genre
	}
	if req.Developer != "" {
		updates["developer"] = req.Developer
	}
	if req.ReleaseDate != nil {
		updates["release_date"] = req.ReleaseDate
	}
	if req.Platform != "" {
		updates["platform"] = req.Platform
	}
	if req.Tags != nil {
		tagged := models.Game{}
		tagged.SetTagList(req.Tags)
		updates["tags"] = tagged.Tags
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price != nil {
		updates["price"] = req.Price
	}
	if req.ClearStudio {
		updates["studio_id"] = nil
	} else if req.StudioID != nil {
		var studios int64
		s.db.Model(&models.Studio{}).Where("id = ?", *req.StudioID).Count(&studios)
		if studios == 0 {
			return nil, notFound("studio")
		}
		updates["studio_id"] = req.StudioID
	}

	if len(updates) == 0 {
		return game, nil
	}

	if err := s.db.Model(game).Updates(updates).Error; err != nil {
		return nil, translateStoreError(err, "game with this title already exists")
	}
	return game, nil
}

// SetThumbnail stores the blob reference returned by the upload collaborator.
func (s *CatalogService) SetThumbnail(id uint, ref string) error {
	game, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.Model(game).Update("thumbnail", ref).Error
}

// Delete removes the game and its dependent library entries and reviews in
// one transaction.
func (s *CatalogService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&models.Ownership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Game{}, id).Error
	})
}

// likePattern builds a case-insensitive substring LIKE pattern.
func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

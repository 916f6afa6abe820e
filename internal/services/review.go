package services

import (
	"errors"
	"math"

	"github.com/coalhq/coal-server/internal/models"
	"gorm.io/gorm"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type CreateReviewRequest struct {
	GameID       uint   `json:"game_id" binding:"required"`
	UserID       uint   `json:"user_id" binding:"required"`
	Rating       int    `json:"rating" binding:"required"`
	ReviewText   string `json:"review_text"`
	GameStudioID *uint  `json:"game_studio_id"`
}

type UpdateReviewRequest struct {
	Rating     *int   `json:"rating"`
	ReviewText string `json:"review_text"`
}

// ReviewDetail joins the review with author and game names.
type ReviewDetail struct {
	models.Review
	Username  string `json:"username,omitempty"`
	GameTitle string `json:"game_title,omitempty"`
}

type GameReviewsResponse struct {
	GameID        uint           `json:"game_id"`
	AverageRating *float64       `json:"average_rating"`
	TotalReviews  int64          `json:"total_reviews"`
	Reviews       []ReviewDetail `json:"reviews"`
}

type UserReviewsResponse struct {
	UserID       uint           `json:"user_id"`
	TotalReviews int64          `json:"total_reviews"`
	Reviews      []ReviewDetail `json:"reviews"`
}

// Create validates the rating before touching storage, snapshots the
// game's studio if the caller did not, and relies on the unique
// (user, game) index to reject a racing duplicate as Conflict.
func (s *ReviewService) Create(req *CreateReviewRequest) (*models.Review, error) {
	if !models.ValidRating(req.Rating) {
		return nil, invalidArgument("rating must be between 1 and 5")
	}

	var users int64
	s.db.Model(&models.User{}).Where("id = ?", req.UserID).Count(&users)
	if users == 0 {
		return nil, notFound("user")
	}

	var game models.Game
	if err := s.db.First(&game, req.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("game")
		}
		return nil, err
	}

	var existing int64
	s.db.Model(&models.Review{}).
		Where("user_id = ? AND game_id = ?", req.UserID, req.GameID).Count(&existing)
	if existing > 0 {
		return nil, conflict("game already reviewed by this user")
	}

	studioRef := req.GameStudioID
	if studioRef == nil {
		studioRef = game.StudioID
	}

	review := models.Review{
		GameID:       req.GameID,
		UserID:       req.UserID,
		Rating:       req.Rating,
		ReviewText:   req.ReviewText,
		GameStudioID: studioRef,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, translateStoreError(err, "game already reviewed by this user")
	}
	return &review, nil
}

func (s *ReviewService) GetByID(id uint) (*ReviewDetail, error) {
	var detail ReviewDetail
	err := s.db.Table("reviews").
		Select("reviews.*, users.username, games.title AS game_title").
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN games ON games.id = reviews.game_id").
		Where("reviews.id = ?", id).
		Scan(&detail).Error
	if err != nil {
		return nil, err
	}
	if detail.ID == 0 {
		return nil, notFound("review")
	}
	return &detail, nil
}

// AverageForGame returns the mean rating rounded to two decimals, or nil
// when the game has no reviews. An empty review set is never reported as
// a zero rating.
func (s *ReviewService) AverageForGame(gameID uint) (*float64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := s.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("game_id = ?", gameID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Count == 0 {
		return nil, nil
	}
	avg := math.Round(row.Avg*100) / 100
	return &avg, nil
}

func (s *ReviewService) CountByGame(gameID uint) (int64, error) {
	var total int64
	err := s.db.Model(&models.Review{}).Where("game_id = ?", gameID).Count(&total).Error
	return total, err
}

func (s *ReviewService) CountByUser(userID uint) (int64, error) {
	var total int64
	err := s.db.Model(&models.Review{}).Where("user_id = ?", userID).Count(&total).Error
	return total, err
}

// ListByGame returns reviews for a game plus the current aggregate. The
// aggregate is computed from the same store, so a review created just
// before this call is included.
func (s *ReviewService) ListByGame(gameID uint, limit, offset int) (*GameReviewsResponse, error) {
	var games int64
	s.db.Model(&models.Game{}).Where("id = ?", gameID).Count(&games)
	if games == 0 {
		return nil, notFound("game")
	}

	limit, offset = clampPage(limit, offset)

	var reviews []ReviewDetail
	err := s.db.Table("reviews").
		Select("reviews.*, users.username").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.game_id = ?", gameID).
		Order("reviews.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&reviews).Error
	if err != nil {
		return nil, err
	}

	avg, err := s.AverageForGame(gameID)
	if err != nil {
		return nil, err
	}
	total, err := s.CountByGame(gameID)
	if err != nil {
		return nil, err
	}

	return &GameReviewsResponse{
		GameID:        gameID,
		AverageRating: avg,
		TotalReviews:  total,
		Reviews:       reviews,
	}, nil
}

func (s *ReviewService) ListByUser(userID uint, limit, offset int) (*UserReviewsResponse, error) {
	var users int64
	s.db.Model(&models.User{}).Where("id = ?", userID).Count(&users)
	if users == 0 {
		return nil, notFound("user")
	}

	limit, offset = clampPage(limit, offset)

	var reviews []ReviewDetail
	err := s.db.Table("reviews").
		Select("reviews.*, games.title AS game_title").
		Joins("JOIN games ON games.id = reviews.game_id").
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&reviews).Error
	if err != nil {
		return nil, err
	}

	total, err := s.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	return &UserReviewsResponse{UserID: userID, TotalReviews: total, Reviews: reviews}, nil
}

// ListByStudio returns reviews tagged with the given studio at authoring
// time, regardless of where the games live now.
func (s *ReviewService) ListByStudio(studioID uint, limit, offset int) ([]ReviewDetail, error) {
	limit, offset = clampPage(limit, offset)

	var reviews []ReviewDetail
	err := s.db.Table("reviews").
		Select("reviews.*, users.username, games.title AS game_title").
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN games ON games.id = reviews.game_id").
		Where("reviews.game_studio_id = ?", studioID).
		Order("reviews.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&reviews).Error
	return reviews, err
}

// Update modifies rating and/or text, re-validating the rating bounds.
func (s *ReviewService) Update(id uint, req *UpdateReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("review")
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Rating != nil {
		if !models.ValidRating(*req.Rating) {
			return nil, invalidArgument("rating must be between 1 and 5")
		}
		updates["rating"] = *req.Rating
	}
	if req.ReviewText != "" {
		updates["review_text"] = req.ReviewText
	}

	if len(updates) == 0 {
		return &review, nil
	}

	if err := s.db.Model(&review).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) Delete(id uint) error {
	result := s.db.Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("review")
	}
	return nil
}

// clampPage bounds pagination arguments to sane values.
func clampPage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/coalhq/coal-server/internal/models"
	"gorm.io/gorm"
)

// LibraryService mediates every write to Ownership records: acquisition,
// status changes, loans, playtime accumulation and removal.
type LibraryService struct {
	db *gorm.DB
}

func NewLibraryService(db *gorm.DB) *LibraryService {
	return &LibraryService{db: db}
}

type AcquireRequest struct {
	UserID       uint                   `json:"user_id" binding:"required"`
	GameID       uint                   `json:"game_id" binding:"required"`
	Type         string                 `json:"type" binding:"required,oneof=digital physical subscription"`
	Options      map[string]interface{} `json:"options"`
	GameStudioID *uint                  `json:"game_studio_id"`
}

type UpdateEntryRequest struct {
	Status       string `json:"status" binding:"omitempty,oneof=owned playing completed wishlist"`
	LoanedTo     *uint  `json:"loaned_to"`
	LoanDuration *int   `json:"loan_duration"`
	ClearLoan    bool   `json:"clear_loan"`
}

type PlaytimeRequest struct {
	Hours float64 `json:"hours"`
}

// LibraryEntry is an ownership row joined with catalog fields for listing.
type LibraryEntry struct {
	models.Ownership
	Title    string   `json:"title"`
	Genre    string   `json:"genre,omitempty"`
	Platform string   `json:"platform,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

// LoanedEntry is an ownership row joined with the borrower's username.
type LoanedEntry struct {
	models.Ownership
	Title            string `json:"title"`
	LoanedToUsername string `json:"loaned_to_username,omitempty"`
}

type LibraryResponse struct {
	UserID     uint           `json:"user_id"`
	TotalGames int64          `json:"total_games"`
	Games      []LibraryEntry `json:"games"`
}

// Acquire adds a game to a user's library. The (user, game) pair is unique;
// a duplicate acquisition is a Conflict whether caught by the pre-check
// read or by the unique index when two requests race.
func (s *LibraryService) Acquire(req *AcquireRequest) (*models.Ownership, error) {
	if !models.ValidAcquisitionType(req.Type) {
		return nil, invalidArgument("unknown acquisition type")
	}

	var users int64
	s.db.Model(&models.User{}).Where("id = ?", req.UserID).Count(&users)
	if users == 0 {
		return nil, notFound("user")
	}

	var games int64
	s.db.Model(&models.Game{}).Where("id = ?", req.GameID).Count(&games)
	if games == 0 {
		return nil, notFound("game")
	}

	var existing int64
	s.db.Model(&models.Ownership{}).
		Where("user_id = ? AND game_id = ?", req.UserID, req.GameID).Count(&existing)
	if existing > 0 {
		return nil, conflict("game already in library")
	}

	entry := models.Ownership{
		UserID:        req.UserID,
		GameID:        req.GameID,
		Type:          req.Type,
		DatePurchased: time.Now(),
		HoursPlayed:   0,
		Status:        models.StatusOwned,
		GameStudioID:  req.GameStudioID,
	}
	if req.Options != nil {
		b, err := json.Marshal(req.Options)
		if err != nil {
			return nil, invalidArgument("options must be JSON-encodable")
		}
		entry.Options = b
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, translateStoreError(err, "game already in library")
	}
	return &entry, nil
}

func (s *LibraryService) GetByID(id uint) (*models.Ownership, error) {
	var entry models.Ownership
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("library entry")
		}
		return nil, err
	}
	return &entry, nil
}

// Update changes status and loan fields. Status moves freely between the
// four states. A loan must name an existing user other than the owner.
func (s *LibraryService) Update(id uint, req *UpdateEntryRequest) (*models.Ownership, error) {
	entry, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Status != "" {
		if !models.ValidStatus(req.Status) {
			return nil, invalidArgument("unknown status")
		}
		updates["status"] = req.Status
	}

	if req.ClearLoan {
		updates["loaned_to"] = nil
		updates["loan_duration"] = nil
		updates["loaned_at"] = nil
	} else if req.LoanedTo != nil {
		if *req.LoanedTo == entry.UserID {
			return nil, invalidArgument("cannot loan a game to its owner")
		}
		var borrowers int64
		s.db.Model(&models.User{}).Where("id = ?", *req.LoanedTo).Count(&borrowers)
		if borrowers == 0 {
			return nil, notFound("borrowing user")
		}
		now := time.Now()
		updates["loaned_to"] = req.LoanedTo
		updates["loaned_at"] = &now
		if req.LoanDuration != nil {
			if *req.LoanDuration <= 0 {
				return nil, invalidArgument("loan duration must be positive")
			}
			updates["loan_duration"] = req.LoanDuration
		}
	} else if req.LoanDuration != nil {
		if entry.LoanedTo == nil {
			return nil, invalidArgument("cannot set a loan duration without a borrower")
		}
		if *req.LoanDuration <= 0 {
			return nil, invalidArgument("loan duration must be positive")
		}
		updates["loan_duration"] = req.LoanDuration
	}

	if len(updates) == 0 {
		return entry, nil
	}

	if err := s.db.Model(entry).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// AddPlaytime accumulates hours onto the entry. Deltas are validated before
// any write: negative values are rejected and leave the row untouched.
// The addition happens in a single UPDATE so concurrent increments never
// lose each other.
func (s *LibraryService) AddPlaytime(id uint, delta float64) (*models.Ownership, error) {
	if delta < 0 {
		return nil, invalidArgument("playtime delta must be non-negative")
	}

	entry, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if delta == 0 {
		return entry, nil
	}

	if err := s.db.Model(entry).
		Update("hours_played", gorm.Expr("hours_played + ?", delta)).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// ListByUser returns the user's library, optionally filtered by status,
// joined with catalog fields and ordered by purchase date.
func (s *LibraryService) ListByUser(userID uint, status string, limit, offset int) (*LibraryResponse, error) {
	var users int64
	s.db.Model(&models.User{}).Where("id = ?", userID).Count(&users)
	if users == 0 {
		return nil, notFound("user")
	}

	if status != "" && !models.ValidStatus(status) {
		return nil, invalidArgument("unknown status")
	}

	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.Table("user_games").
		Select("user_games.*, games.title, games.genre, games.platform, games.price").
		Joins("JOIN games ON games.id = user_games.game_id").
		Where("user_games.user_id = ?", userID)
	if status != "" {
		query = query.Where("user_games.status = ?", status)
	}

	var entries []LibraryEntry
	if err := query.Order("user_games.date_purchased DESC").
		Limit(limit).Offset(offset).Scan(&entries).Error; err != nil {
		return nil, err
	}

	var total int64
	s.db.Model(&models.Ownership{}).Where("user_id = ?", userID).Count(&total)

	return &LibraryResponse{UserID: userID, TotalGames: total, Games: entries}, nil
}

// Loaned lists the user's entries currently on loan, with borrower names.
func (s *LibraryService) Loaned(userID uint) ([]LoanedEntry, error) {
	var users int64
	s.db.Model(&models.User{}).Where("id = ?", userID).Count(&users)
	if users == 0 {
		return nil, notFound("user")
	}

	var entries []LoanedEntry
	err := s.db.Table("user_games").
		Select("user_games.*, games.title, borrowers.username AS loaned_to_username").
		Joins("JOIN games ON games.id = user_games.game_id").
		Joins("LEFT JOIN users AS borrowers ON borrowers.id = user_games.loaned_to").
		Where("user_games.user_id = ? AND user_games.loaned_to IS NOT NULL", userID).
		Order("user_games.date_purchased DESC").
		Scan(&entries).Error
	return entries, err
}

func (s *LibraryService) CountByUser(userID uint) (int64, error) {
	var total int64
	err := s.db.Model(&models.Ownership{}).Where("user_id = ?", userID).Count(&total).Error
	return total, err
}

// Remove deletes the library entry outright. There is no soft delete.
func (s *LibraryService) Remove(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.db.Delete(&models.Ownership{}, id).Error
}

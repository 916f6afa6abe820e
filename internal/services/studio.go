package services

import (
	"errors"

	"github.com/coalhq/coal-server/internal/models"
	"gorm.io/gorm"
)

type StudioService struct {
	db *gorm.DB
}

func NewStudioService(db *gorm.DB) *StudioService {
	return &StudioService{db: db}
}

type CreateStudioRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Logo        string `json:"logo"`
	ContactInfo string `json:"contact_info"`
	UserID      *uint  `json:"user_id"`
}

type UpdateStudioRequest struct {
	Name        string `json:"name"`
	Logo        string `json:"logo"`
	ContactInfo string `json:"contact_info"`
}

type StudioDetail struct {
	models.Studio
	TotalGames int64 `json:"total_games"`
}

func (s *StudioService) Create(req *CreateStudioRequest) (*models.Studio, error) {
	var count int64
	s.db.Model(&models.Studio{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return nil, conflict("studio with this name already exists")
	}

	studio := models.Studio{
		Name:        req.Name,
		Logo:        req.Logo,
		ContactInfo: req.ContactInfo,
		UserID:      req.UserID,
	}
	if err := s.db.Create(&studio).Error; err != nil {
		return nil, translateStoreError(err, "studio with this name already exists")
	}
	return &studio, nil
}

func (s *StudioService) GetByID(id uint) (*models.Studio, error) {
	var studio models.Studio
	if err := s.db.First(&studio, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("studio")
		}
		return nil, err
	}
	return &studio, nil
}

// GetDetail returns the studio with its assigned game count.
func (s *StudioService) GetDetail(id uint) (*StudioDetail, error) {
	studio, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	detail := StudioDetail{Studio: *studio}
	s.db.Model(&models.Game{}).Where("studio_id = ?", id).Count(&detail.TotalGames)
	return &detail, nil
}

func (s *StudioService) List(limit, offset int) ([]models.Studio, error) {
	var studios []models.Studio
	err := s.db.Order("name").Limit(limit).Offset(offset).Find(&studios).Error
	return studios, err
}

// Games lists a studio's own games, newest release first. This is the
// studio's view, so unpublished filtering does not apply here.
func (s *StudioService) Games(id uint, limit, offset int) ([]models.Game, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}
	var games []models.Game
	err := s.db.Where("studio_id = ?", id).
		Order("release_date DESC").Limit(limit).Offset(offset).Find(&games).Error
	return games, err
}

func (s *StudioService) Update(id uint, req *UpdateStudioRequest) (*models.Studio, error) {
	studio, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" && req.Name != studio.Name {
		var count int64
		s.db.Model(&models.Studio{}).Where("name = ? AND id <> ?", req.Name, id).Count(&count)
		if count > 0 {
			return nil, conflict("studio with this name already exists")
		}
		updates["name"] = req.Name
	}
	if req.Logo != "" {
		updates["logo"] = req.Logo
	}
	if req.ContactInfo != "" {
		updates["contact_info"] = req.ContactInfo
	}

	if len(updates) == 0 {
		return studio, nil
	}

	if err := s.db.Model(studio).Updates(updates).Error; err != nil {
		return nil, translateStoreError(err, "studio with this name already exists")
	}
	return studio, nil
}

// Delete detaches the studio's games (studio_id set to NULL) and removes
// the studio in one transaction. The games survive as unpublished entries.
func (s *StudioService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Game{}).Where("studio_id = ?", id).
			Update("studio_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Studio{}, id).Error
	})
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/coalhq/coal-server/internal/config"
	"github.com/coalhq/coal-server/internal/models"
	"github.com/coalhq/coal-server/internal/utils"
	"gorm.io/gorm"
)

type UserService struct {
	db     *gorm.DB
	jwtCfg *config.JWTConfig
}

func NewUserService(db *gorm.DB, jwtCfg *config.JWTConfig) *UserService {
	return &UserService{db: db, jwtCfg: jwtCfg}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=user studio-admin admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=user studio-admin admin"`
	Avatar   string `json:"avatar"`
}

type UserProfile struct {
	models.User
	TotalGames   int64 `json:"total_games"`
	TotalReviews int64 `json:"total_reviews"`
}

// Register creates a new account with a bcrypt-hashed password. Username
// and email must be unique; the DB unique indexes back the pre-check reads.
func (s *UserService) Register(req *RegisterRequest) (*models.User, error) {
	var count int64
	s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return nil, conflict("username already taken")
	}
	s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, conflict("email already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, translateStoreError(err, "username or email already in use")
	}
	return &user, nil
}

// Login verifies credentials and issues a JWT.
func (s *UserService) Login(req *LoginRequest) (*LoginResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidArgument("invalid email or password")
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, invalidArgument("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, s.jwtCfg.ExpireHour)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		User:     &user,
		ExpireAt: time.Now().Add(time.Duration(s.jwtCfg.ExpireHour) * time.Hour),
	}, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}
	return &user, nil
}

// GetProfile returns the user together with library and review counts.
func (s *UserService) GetProfile(id uint) (*UserProfile, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	profile := UserProfile{User: *user}
	s.db.Model(&models.Ownership{}).Where("user_id = ?", id).Count(&profile.TotalGames)
	s.db.Model(&models.Review{}).Where("user_id = ?", id).Count(&profile.TotalReviews)
	return &profile, nil
}

func (s *UserService) List(limit, offset int) ([]models.User, error) {
	var users []models.User
	err := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

// SearchByUsername is a case-insensitive substring match, capped at limit.
func (s *UserService) SearchByUsername(q string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 5
	}
	var users []models.User
	err := s.db.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(q)+"%").
		Order("username").Limit(limit).Find(&users).Error
	return users, err
}

// Update applies a partial update, re-hashing the password if changed.
func (s *UserService) Update(id uint, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Username != "" && req.Username != user.Username {
		var count int64
		s.db.Model(&models.User{}).Where("username = ? AND id <> ?", req.Username, id).Count(&count)
		if count > 0 {
			return nil, conflict("username already taken")
		}
		updates["username"] = req.Username
	}
	if req.Email != "" && req.Email != user.Email {
		var count int64
		s.db.Model(&models.User{}).Where("email = ? AND id <> ?", req.Email, id).Count(&count)
		if count > 0 {
			return nil, conflict("email already registered")
		}
		updates["email"] = req.Email
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, translateStoreError(err, "username or email already in use")
	}
	return user, nil
}

// Delete removes the account and, in the same transaction, its library
// entries and reviews. Ownership and Review rows only live as long as both
// endpoints of the relation do.
func (s *UserService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Ownership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

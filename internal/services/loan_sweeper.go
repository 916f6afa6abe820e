package services

import (
	"time"

	"github.com/coalhq/coal-server/internal/models"
	"github.com/coalhq/coal-server/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// LoanSweeper periodically clears loans that have run past their duration,
// returning the entries to their owners.
type LoanSweeper struct {
	db   *gorm.DB
	cron *cron.Cron
}

func NewLoanSweeper(db *gorm.DB) *LoanSweeper {
	return &LoanSweeper{db: db}
}

// Start schedules an hourly sweep. Safe to call once at bootstrap.
func (s *LoanSweeper) Start() {
	s.cron = cron.New()
	_, err := s.cron.AddFunc("@hourly", func() {
		if n, err := s.SweepExpired(time.Now()); err != nil {
			logger.Error().Err(err).Msg("loan sweep failed")
		} else if n > 0 {
			logger.Info().Int64("cleared", n).Msg("expired loans returned")
		}
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to schedule loan sweeper")
		return
	}
	s.cron.Start()
}

func (s *LoanSweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// SweepExpired clears every loan whose duration elapsed before now and
// reports how many rows were touched. Loans without a duration are left
// alone.
func (s *LoanSweeper) SweepExpired(now time.Time) (int64, error) {
	var loaned []models.Ownership
	if err := s.db.
		Where("loaned_to IS NOT NULL AND loaned_at IS NOT NULL AND loan_duration IS NOT NULL").
		Find(&loaned).Error; err != nil {
		return 0, err
	}

	var cleared int64
	for i := range loaned {
		if !loaned[i].LoanExpired(now) {
			continue
		}
		err := s.db.Model(&loaned[i]).Updates(map[string]interface{}{
			"loaned_to":     nil,
			"loan_duration": nil,
			"loaned_at":     nil,
		}).Error
		if err != nil {
			return cleared, err
		}
		cleared++
	}
	return cleared, nil
}

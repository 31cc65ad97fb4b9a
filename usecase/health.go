package usecase

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainHealth "github.com/postpilot/postpilot/domains/health"
	domainScheduler "github.com/postpilot/postpilot/domains/scheduler"
)

type healthService struct {
	db        *gorm.DB
	scheduler domainScheduler.ISchedulerUsecase
	version   string
}

func NewHealthService(db *gorm.DB, scheduler domainScheduler.ISchedulerUsecase, version string) domainHealth.IHealthUsecase {
	return &healthService{db: db, scheduler: scheduler, version: version}
}

func (s *healthService) Status(ctx context.Context) (domainHealth.AppHealth, error) {
	snapshot := domainHealth.AppHealth{
		Status:    domainHealth.StatusOk,
		Version:   s.version,
		Database:  domainHealth.StatusOk,
		CheckedAt: time.Now().UTC(),
	}

	if s.db == nil {
		snapshot.Database = domainHealth.StatusError
	} else if sqlDB, err := s.db.DB(); err != nil {
		snapshot.Database = domainHealth.StatusError
	} else if err := sqlDB.PingContext(ctx); err != nil {
		snapshot.Database = domainHealth.StatusError
	}

	if s.scheduler != nil {
		snapshot.ActiveTimers = len(s.scheduler.ActiveKeys())
	}

	if snapshot.Database != domainHealth.StatusOk {
		snapshot.Status = domainHealth.StatusError
	}
	return snapshot, nil
}

package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MaintenanceService runs the hourly sweep that purges completed tasks past
// their retention window.
type MaintenanceService struct {
	tasks  *TaskService
	logger *zap.Logger
	cron   *cron.Cron
}

func NewMaintenanceService(tasks *TaskService, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		tasks:  tasks,
		logger: logger,
		cron:   cron.New(),
	}
}

func (s *MaintenanceService) Start() error {
	_, err := s.cron.AddFunc("@hourly", s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Maintenance scheduler started")
	return nil
}

// Stop halts the scheduler and waits for an in-flight sweep to finish.
func (s *MaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Maintenance scheduler stopped")
}

func (s *MaintenanceService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.tasks.PurgeCompleted(ctx); err != nil {
		s.logger.Error("Completed-task purge failed", zap.Error(err))
	}
}

package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
)

// SchedulerService wraps cron-based background jobs.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService() *SchedulerService {
	return &SchedulerService{
		cron: cron.New(),
	}
}

// ScheduleInterval registers a periodic job every given duration.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	return s.cron.AddFunc(fmt.Sprintf("@every %s", interval), job)
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// OverdueService flags open tasks whose due date has passed.
type OverdueService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(taskRepo repository.TaskRepository) *OverdueService {
	return &OverdueService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// Sweep marks pending and in-progress tasks due before today as overdue and
// returns how many changed.
func (s *OverdueService) Sweep() (int64, error) {
	n, err := s.taskRepo.MarkOverdue(startOfDay(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue tasks: %w", err)
	}
	return n, nil
}

// Job adapts Sweep to a scheduler callback.
func (s *OverdueService) Job() {
	n, err := s.Sweep()
	if err != nil {
		log.Printf("Overdue sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Marked %d task(s) overdue", n)
	}
}

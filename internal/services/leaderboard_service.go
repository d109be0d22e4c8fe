package services

import (
	"fmt"

	"github.com/yukikurage/rbac-admin-api/internal/leaderboard"
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
)

// LeaderboardService ranks users and projects by completed tasks. Both
// rankings are recomputed on every call.
type LeaderboardService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *LeaderboardService {
	return &LeaderboardService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// UserRanking ranks every user, scoring by the sum of quality scores.
func (s *LeaderboardService) UserRanking() ([]leaderboard.Entry, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	completed, err := s.completedTasks()
	if err != nil {
		return nil, err
	}

	subjects := make([]leaderboard.Subject, len(users))
	for i, u := range users {
		subjects[i] = leaderboard.Subject{ID: u.ID, Name: u.Name}
	}

	return leaderboard.RankUsers(subjects, completed), nil
}

// ProjectRanking ranks every project, scoring by the average quality score.
func (s *LeaderboardService) ProjectRanking() ([]leaderboard.Entry, error) {
	projects, err := s.projectRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	completed, err := s.completedTasks()
	if err != nil {
		return nil, err
	}

	subjects := make([]leaderboard.Subject, len(projects))
	for i, p := range projects {
		subjects[i] = leaderboard.Subject{ID: p.ID, Name: p.Name}
	}

	return leaderboard.RankProjects(subjects, completed), nil
}

func (s *LeaderboardService) completedTasks() ([]leaderboard.CompletedTask, error) {
	tasks, err := s.taskRepo.ListCompleted()
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}
	return toCompletedTasks(tasks), nil
}

func toCompletedTasks(tasks []models.Task) []leaderboard.CompletedTask {
	completed := make([]leaderboard.CompletedTask, len(tasks))
	for i, t := range tasks {
		completed[i] = leaderboard.CompletedTask{
			ProjectID:    t.ProjectID,
			AssignedTo:   t.AssignedTo,
			QualityScore: t.QualityScore,
		}
	}
	return completed
}

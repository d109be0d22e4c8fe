package services

import (
	"fmt"

	"github.com/yukikurage/rbac-admin-api/internal/leaderboard"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
)

// DashboardService assembles the landing page counters
type DashboardService struct {
	statsRepo   repository.StatsRepository
	leaderboard *LeaderboardService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(statsRepo repository.StatsRepository, leaderboard *LeaderboardService) *DashboardService {
	return &DashboardService{
		statsRepo:   statsRepo,
		leaderboard: leaderboard,
	}
}

// Overview returns the global counters and the user ranking
func (s *DashboardService) Overview() (repository.DashboardCounts, []leaderboard.Entry, error) {
	counts, err := s.statsRepo.DashboardCounts()
	if err != nil {
		return repository.DashboardCounts{}, nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}

	ranking, err := s.leaderboard.UserRanking()
	if err != nil {
		return repository.DashboardCounts{}, nil, err
	}

	return counts, ranking, nil
}

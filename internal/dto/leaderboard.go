package dto

import (
	"github.com/yukikurage/rbac-admin-api/internal/leaderboard"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
)

// LeaderboardEntryDTO is one ranked user or project
type LeaderboardEntryDTO struct {
	Rank           int     `json:"rank"`
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	CompletedTasks int     `json:"completed_tasks"`
	Score          float64 `json:"score"`
}

// LeaderboardDTO is a ranking together with how its score was aggregated
type LeaderboardDTO struct {
	Subject     string                  `json:"subject"`
	Aggregation leaderboard.Aggregation `json:"aggregation"`
	Entries     []LeaderboardEntryDTO   `json:"entries"`
}

// DashboardDTO holds the dashboard counters and the user ranking
type DashboardDTO struct {
	TotalUsers     int64          `json:"total_users"`
	TasksCompleted int64          `json:"tasks_completed"`
	TotalProjects  int64          `json:"total_projects"`
	Leaderboard    LeaderboardDTO `json:"leaderboard"`
}

// ToLeaderboardDTO numbers the entries in ranking order
func ToLeaderboardDTO(subject string, aggregation leaderboard.Aggregation, entries []leaderboard.Entry) LeaderboardDTO {
	items := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		items[i] = LeaderboardEntryDTO{
			Rank:           i + 1,
			ID:             e.ID,
			Name:           e.Name,
			CompletedTasks: e.CompletedTasks,
			Score:          e.Score,
		}
	}
	return LeaderboardDTO{
		Subject:     subject,
		Aggregation: aggregation,
		Entries:     items,
	}
}

// ToDashboardDTO combines the counters with the user ranking
func ToDashboardDTO(counts repository.DashboardCounts, board LeaderboardDTO) DashboardDTO {
	return DashboardDTO{
		TotalUsers:     counts.TotalUsers,
		TasksCompleted: counts.TasksCompleted,
		TotalProjects:  counts.TotalProjects,
		Leaderboard:    board,
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/dto"
	"github.com/yukikurage/rbac-admin-api/internal/leaderboard"
	"github.com/yukikurage/rbac-admin-api/internal/services"
)

// LeaderboardHandler serves the user and project rankings
type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	dashboardService   *services.DashboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboardService *services.LeaderboardService, dashboardService *services.DashboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		dashboardService:   dashboardService,
	}
}

// UserLeaderboard ranks users by completed tasks, scored by summed quality
func (h *LeaderboardHandler) UserLeaderboard(c *gin.Context) {
	entries, err := h.leaderboardService.UserRanking()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLeaderboardDTO("users", leaderboard.AggregationSum, entries))
}

// ProjectLeaderboard ranks projects by completed tasks, scored by average
// quality
func (h *LeaderboardHandler) ProjectLeaderboard(c *gin.Context) {
	entries, err := h.leaderboardService.ProjectRanking()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLeaderboardDTO("projects", leaderboard.AggregationAverage, entries))
}

// Dashboard returns the global counters with the user ranking
func (h *LeaderboardHandler) Dashboard(c *gin.Context) {
	counts, entries, err := h.dashboardService.Overview()
	if err != nil {
		respondError(c, err)
		return
	}

	board := dto.ToLeaderboardDTO("users", leaderboard.AggregationSum, entries)
	c.JSON(http.StatusOK, dto.ToDashboardDTO(counts, board))
}

package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"gorm.io/gorm"
)

const dashboardCountsQuery = `
SELECT
	(SELECT COUNT(*) FROM users) AS total_users,
	(SELECT COUNT(*) FROM tasks WHERE status = ?) AS tasks_completed,
	(SELECT COUNT(*) FROM projects) AS total_projects`

// SqlxStatsRepository reads dashboard counters with plain SQL over the
// connection pool that GORM already owns.
type SqlxStatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository wraps the GORM connection pool in sqlx
func NewStatsRepository(db *gorm.DB) (StatsRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("stats repository: %w", err)
	}
	return &SqlxStatsRepository{db: sqlx.NewDb(sqlDB, sqlxDriverName(db.Dialector.Name()))}, nil
}

// DashboardCounts returns the user, completed task and project totals
func (r *SqlxStatsRepository) DashboardCounts() (DashboardCounts, error) {
	var counts DashboardCounts
	query := r.db.Rebind(dashboardCountsQuery)
	if err := r.db.Get(&counts, query, models.TaskStatusCompleted); err != nil {
		return DashboardCounts{}, err
	}
	return counts, nil
}

// sqlxDriverName maps a GORM dialect to the driver name sqlx uses to pick
// its bind variable style.
func sqlxDriverName(dialect string) string {
	switch dialect {
	case "postgres":
		return "pgx"
	case "sqlite":
		return "sqlite3"
	default:
		return dialect
	}
}

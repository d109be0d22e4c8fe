package repository

import (
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns every project with its total and completed task counts
func (r *GormProjectRepository) List() ([]ProjectWithTaskCount, error) {
	var projects []ProjectWithTaskCount
	err := r.db.Model(&models.Project{}).
		Select("projects.*, "+
			"(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id) AS tasks_count, "+
			"(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id AND tasks.status = ?) AS completed_tasks_count",
			models.TaskStatusCompleted).
		Order("projects.id ASC").
		Scan(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// ListAll returns every project
func (r *GormProjectRepository) ListAll() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

// Delete removes a project together with its tasks
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

// ExistsByID reports whether a project exists
func (r *GormProjectRepository) ExistsByID(id uint64) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

package database

import (
	"errors"

	"github.com/resilienceworks/case-study-backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects, newest first. Null-able list fields come
// back normalized so callers never see a JSON null where a list belongs.
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, err
	}

	for _, project := range projects {
		if project.HazardTypes == nil {
			project.HazardTypes = datatypes.JSONSlice[string]{}
		}
	}
	return projects, nil
}

// FindByID returns a project by its ID, or nil when no such row exists.
func (r *ProjectRepo) FindByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Delete removes a project row by id and reports whether it existed.
func (r *ProjectRepo) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Project{}, id)
	return result.RowsAffected > 0, result.Error
}

package database

import (
	"errors"

	"github.com/resilienceworks/case-study-backend/models"
	"gorm.io/gorm"
)

type OutcomeRepo struct {
	db *gorm.DB
}

func NewOutcomeRepo(db *gorm.DB) *OutcomeRepo {
	return &OutcomeRepo{db}
}

// Add inserts a new outcome. Project existence is enforced by the foreign
// key, not pre-checked.
func (r *OutcomeRepo) Add(outcome *models.Outcome) error {
	return r.db.Create(outcome).Error
}

// FindByID returns an outcome by its ID, or nil when no such row exists.
func (r *OutcomeRepo) FindByID(id uint) (*models.Outcome, error) {
	var outcome models.Outcome
	err := r.db.First(&outcome, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// FindLatestByProject returns the most recent outcome for a project by
// created_at, or nil when the project has none.
func (r *OutcomeRepo) FindLatestByProject(projectID uint) (*models.Outcome, error) {
	var outcome models.Outcome
	err := r.db.Where("project_id = ?", projectID).Order("created_at DESC").First(&outcome).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// Save writes back a modified outcome.
func (r *OutcomeRepo) Save(outcome *models.Outcome) error {
	return r.db.Save(outcome).Error
}

// Delete removes an outcome row by id and reports whether it existed.
func (r *OutcomeRepo) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Outcome{}, id)
	return result.RowsAffected > 0, result.Error
}

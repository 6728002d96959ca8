package database

import (
	"errors"

	"github.com/resilienceworks/case-study-backend/models"
	"gorm.io/gorm"
)

type FileRepo struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) *FileRepo {
	return &FileRepo{db}
}

// Add inserts a new file record into the database
func (r *FileRepo) Add(record *models.FileRecord) error {
	return r.db.Create(record).Error
}

// FindByID returns a file record by its ID, or nil when no such row exists.
func (r *FileRepo) FindByID(id uint) (*models.FileRecord, error) {
	var record models.FileRecord
	err := r.db.First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByProject returns all file records for a project, newest upload first.
func (r *FileRepo) FindByProject(projectID uint) ([]*models.FileRecord, error) {
	var records []*models.FileRecord
	err := r.db.Where("project_id = ?", projectID).Order("uploaded_at DESC").Find(&records).Error
	return records, err
}

// DeleteByProject removes every file record belonging to a project.
func (r *FileRepo) DeleteByProject(projectID uint) error {
	return r.db.Where("project_id = ?", projectID).Delete(&models.FileRecord{}).Error
}

// Delete removes a file record by id and reports whether it existed.
func (r *FileRepo) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.FileRecord{}, id)
	return result.RowsAffected > 0, result.Error
}

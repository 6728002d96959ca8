package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db          *gorm.DB
	projectRepo *ProjectRepo
	outcomeRepo *OutcomeRepo
	fileRepo    *FileRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		projectRepo: NewProjectRepo(db),
		outcomeRepo: NewOutcomeRepo(db),
		fileRepo:    NewFileRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) OutcomeRepo() *OutcomeRepo {
	return d.outcomeRepo
}

func (d Database) FileRepo() *FileRepo {
	return d.fileRepo
}

// Transaction runs fn inside a single store transaction. fn receives a
// Database whose repositories are bound to that transaction; the
// transaction rolls back when fn returns an error and commits otherwise,
// so every exit path releases the connection.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

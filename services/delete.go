package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/resilienceworks/case-study-backend/database"
	"github.com/resilienceworks/case-study-backend/errs"
	"github.com/resilienceworks/case-study-backend/storage"
)

// Deleter removes a project together with its dependent rows and blobs,
// leaving no orphans behind.
type Deleter struct {
	db     database.Database
	store  storage.BlobStore
	logger zerolog.Logger
}

func NewDeleter(db database.Database, store storage.BlobStore) *Deleter {
	logger := log.With().Str("serviceName", "deleter").Logger()

	return &Deleter{
		db:     db,
		store:  store,
		logger: logger,
	}
}

type DeleteResult struct {
	ProjectID    uint `json:"project_id"`
	FilesDeleted int  `json:"files_deleted"`
}

// DeleteProject removes a project, its file rows and their blobs. The
// confirm flag gates the whole operation; without it nothing happens.
// Blob removal is best-effort — a stubborn file is logged and its row
// removed anyway. Outcome rows go away through the store's cascade rule.
//
// Blobs are cleaned before project existence is known; when the project
// turns out not to exist the row deletions roll back but blob removals
// stand. Intentional: this mirrors the historical behavior, and the path
// only triggers on a race or a pre-existing orphan.
func (d *Deleter) DeleteProject(ctx context.Context, projectID uint, confirm bool) (*DeleteResult, error) {
	if !confirm {
		return nil, errs.NewConfirmationRequiredError("project")
	}

	records, err := d.db.FileRepo().FindByProject(projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "files", err)
	}

	deleted := 0
	for _, record := range records {
		if err := d.store.Remove(record.Filepath); err != nil {
			d.logger.Warn().Err(err).Uint("fileID", record.ID).Str("path", record.Filepath).Msg("Could not remove blob from disk")
			continue
		}
		deleted++
	}

	err = d.db.Transaction(ctx, func(tx database.Database) error {
		if err := tx.FileRepo().DeleteByProject(projectID); err != nil {
			return errs.NewTransactionFailedError("delete file records", err)
		}

		existed, err := tx.ProjectRepo().Delete(projectID)
		if err != nil {
			return errs.NewTransactionFailedError("delete project", err)
		}
		if !existed {
			return errs.NewNotFoundError("project not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteResult{ProjectID: projectID, FilesDeleted: deleted}, nil
}

// DeleteFile removes a single file record and its blob. Blob removal is
// best-effort; the row goes away regardless.
func (d *Deleter) DeleteFile(ctx context.Context, fileID uint) error {
	record, err := d.db.FileRepo().FindByID(fileID)
	if err != nil {
		return errs.NewDatabaseError("find", "file", err)
	}
	if record == nil {
		return errs.NewNotFoundError("file not found")
	}

	if err := d.store.Remove(record.Filepath); err != nil {
		d.logger.Warn().Err(err).Uint("fileID", fileID).Str("path", record.Filepath).Msg("Could not remove blob from disk")
	}

	if _, err := d.db.FileRepo().Delete(fileID); err != nil {
		return errs.NewDatabaseError("delete", "file", err)
	}
	return nil
}

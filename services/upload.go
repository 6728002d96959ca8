package services

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/resilienceworks/case-study-backend/database"
	"github.com/resilienceworks/case-study-backend/errs"
	"github.com/resilienceworks/case-study-backend/models"
	"github.com/resilienceworks/case-study-backend/storage"
)

// Location sentinels written onto implicitly created projects.
const (
	locationUnspecified = "unspecified"
	locationMultiUpload = "multiple_files"
)

// UploadTarget identifies where uploaded blobs attach: an existing project,
// or a project created on the fly from a title and description.
type UploadTarget interface {
	uploadTarget()
}

type ExistingProject struct {
	ID uint
}

type NewProject struct {
	Title       string
	Description string
}

func (ExistingProject) uploadTarget() {}
func (NewProject) uploadTarget()      {}

// ResolveTarget builds an UploadTarget from the optional request fields.
// A request must carry a project id, or both title and description.
func ResolveTarget(projectID *uint, title, description string) (UploadTarget, error) {
	if projectID != nil {
		return ExistingProject{ID: *projectID}, nil
	}
	if title != "" && description != "" {
		return NewProject{Title: title, Description: description}, nil
	}
	return nil, errs.NewBadRequestError("need project_id or title+description")
}

// Blob is one uploaded document: its client-supplied name, MIME type and
// content.
type Blob struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type UploadResult struct {
	ProjectID uint `json:"project_id"`
	FileID    uint `json:"file_id"`
}

type MultiUploadResult struct {
	ProjectID uint   `json:"project_id"`
	FileIDs   []uint `json:"file_ids"`
	Saved     int    `json:"saved"`
}

// Uploader couples the blob store and the relational store so a saved blob
// and its database row stay consistent.
type Uploader struct {
	db     database.Database
	store  storage.BlobStore
	logger zerolog.Logger
}

func NewUploader(db database.Database, store storage.BlobStore) *Uploader {
	logger := log.With().Str("serviceName", "uploader").Logger()

	return &Uploader{
		db:     db,
		store:  store,
		logger: logger,
	}
}

// UploadOne persists a single blob and its file record as one logical
// operation. The blob is written first; if the database side then fails for
// any reason the blob is removed again, so the store never holds an orphan
// blob without a matching record.
func (u *Uploader) UploadOne(ctx context.Context, target UploadTarget, blob Blob) (*UploadResult, error) {
	if !storage.ValidFilename(blob.Filename) {
		return nil, errs.NewInvalidFilenameError(blob.Filename)
	}

	path, err := u.store.Save(blob.Filename, blob.Content)
	if err != nil {
		// No database mutation has been attempted yet.
		return nil, errs.NewStorageFailureError("save", blob.Filename, err)
	}

	var result UploadResult
	err = u.db.Transaction(ctx, func(tx database.Database) error {
		projectID, err := resolveProject(tx, target, locationUnspecified)
		if err != nil {
			return err
		}

		record := models.FileRecord{
			ProjectID: projectID,
			Filename:  blob.Filename,
			Filepath:  path,
			Filetype:  blob.ContentType,
		}
		if err := tx.FileRepo().Add(&record); err != nil {
			return errs.NewTransactionFailedError("insert file record", err)
		}

		result = UploadResult{ProjectID: projectID, FileID: record.ID}
		return nil
	})
	if err != nil {
		if rmErr := u.store.Remove(path); rmErr != nil {
			u.logger.Error().Err(rmErr).Str("path", path).Msg("Failed to remove blob after aborted upload")
		}
		return nil, err
	}

	return &result, nil
}

// UploadMany attaches a batch of blobs to one project, best-effort: a file
// with an unsafe name or a failed save/insert is skipped and the rest of
// the batch continues, and files already committed are never rolled back.
// Only project resolution is fail-fast — a missing project aborts the batch
// before any blob is written.
func (u *Uploader) UploadMany(ctx context.Context, target UploadTarget, blobs []Blob) (*MultiUploadResult, error) {
	if len(blobs) == 0 {
		return nil, errs.NewBadRequestError("no files uploaded")
	}

	var projectID uint
	err := u.db.Transaction(ctx, func(tx database.Database) error {
		id, err := resolveProject(tx, target, locationMultiUpload)
		if err != nil {
			return err
		}
		projectID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &MultiUploadResult{ProjectID: projectID, FileIDs: []uint{}}
	for _, blob := range blobs {
		if !storage.ValidFilename(blob.Filename) {
			u.logger.Warn().Str("filename", blob.Filename).Msg("Skipping file with unsafe name")
			continue
		}

		path, err := u.store.Save(blob.Filename, blob.Content)
		if err != nil {
			u.logger.Warn().Err(err).Str("filename", blob.Filename).Msg("Skipping file that failed to save")
			continue
		}

		record := models.FileRecord{
			ProjectID: projectID,
			Filename:  blob.Filename,
			Filepath:  path,
			Filetype:  blob.ContentType,
		}
		if err := u.db.FileRepo().Add(&record); err != nil {
			u.logger.Warn().Err(err).Str("filename", blob.Filename).Msg("Skipping file whose record insert failed")
			if rmErr := u.store.Remove(path); rmErr != nil {
				u.logger.Error().Err(rmErr).Str("path", path).Msg("Failed to remove blob after failed insert")
			}
			continue
		}

		result.FileIDs = append(result.FileIDs, record.ID)
	}
	result.Saved = len(result.FileIDs)

	return result, nil
}

// resolveProject turns an UploadTarget into a concrete project id, creating
// the implicit project (with the given location sentinel) when the target
// is a NewProject.
func resolveProject(tx database.Database, target UploadTarget, location string) (uint, error) {
	switch t := target.(type) {
	case ExistingProject:
		project, err := tx.ProjectRepo().FindByID(t.ID)
		if err != nil {
			return 0, errs.NewTransactionFailedError("find project", err)
		}
		if project == nil {
			return 0, errs.NewNotFoundError("project not found")
		}
		return t.ID, nil
	case NewProject:
		project := models.Project{
			Title:       t.Title,
			Description: t.Description,
			Location:    location,
		}
		if err := tx.ProjectRepo().Add(&project); err != nil {
			return 0, errs.NewTransactionFailedError("create project", err)
		}
		return project.ID, nil
	}
	return 0, errs.NewBadRequestError("missing upload target")
}

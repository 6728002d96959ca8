package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/resilienceworks/case-study-backend/database"
	"github.com/resilienceworks/case-study-backend/errs"
	"github.com/resilienceworks/case-study-backend/services"
	"github.com/resilienceworks/case-study-backend/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, store storage.BlobStore, c map[string]string, startupTime time.Time) *routeHandlers {
	uploader := services.NewUploader(db, store)
	deleter := services.NewDeleter(db, store)

	return &routeHandlers{
		projectHandler: newProjectHandler(db.ProjectRepo(), deleter),
		outcomeHandler: newOutcomeHandler(db.OutcomeRepo()),
		fileHandler:    newFileHandler(db.FileRepo(), store, uploader, deleter, c),
		healthHandler:  newHealthHandler(startupTime),
	}
}

// parseIDParam reads a positive integer id from a chi URL parameter.
func parseIDParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewBadRequestError("missing " + name)
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return uint(id), nil
}

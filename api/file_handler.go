package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/resilienceworks/case-study-backend/config"
	"github.com/resilienceworks/case-study-backend/database"
	"github.com/resilienceworks/case-study-backend/errs"
	"github.com/resilienceworks/case-study-backend/models"
	"github.com/resilienceworks/case-study-backend/services"
	"github.com/resilienceworks/case-study-backend/storage"
)

type fileHandler struct {
	responder   Responder
	logger      zerolog.Logger
	fileRepo    *database.FileRepo
	store       storage.BlobStore
	uploader    *services.Uploader
	deleter     *services.Deleter
	maxUploadMB int64
}

func newFileHandler(fileRepo *database.FileRepo, store storage.BlobStore, uploader *services.Uploader, deleter *services.Deleter, c map[string]string) fileHandler {
	logger := log.With().Str("handlerName", "fileHandler").Logger()

	maxUploadMB := int64(config.GetInt(c, "MAX_UPLOAD_MB", 32))

	return fileHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		fileRepo:    fileRepo,
		store:       store,
		uploader:    uploader,
		deleter:     deleter,
		maxUploadMB: maxUploadMB,
	}
}

// uploadTargetFromForm reads project_id / title / description form fields
// into an upload target.
func uploadTargetFromForm(r *http.Request) (services.UploadTarget, error) {
	var projectID *uint
	if raw := r.FormValue("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return nil, errs.NewBadRequestErrorWithField("invalid project_id", "project_id", raw)
		}
		v := uint(id)
		projectID = &v
	}

	return services.ResolveTarget(projectID, r.FormValue("title"), r.FormValue("description"))
}

func blobFromFileHeader(header *multipart.FileHeader) (services.Blob, io.Closer, error) {
	f, err := header.Open()
	if err != nil {
		return services.Blob{}, nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return services.Blob{
		Filename:    header.Filename,
		ContentType: contentType,
		Content:     f,
	}, f, nil
}

// uploadFile stores a single file against a project
// @Summary Upload file
// @Description Uploads one file, attaching it to an existing project or creating one from title+description
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param project_id formData int false "Existing project ID"
// @Param title formData string false "Title for an implicitly created project"
// @Param description formData string false "Description for an implicitly created project"
// @Success 200 {object} map[string]interface{} "Upload summary"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing target or unsafe filename"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Storage or transaction failure"
// @Router /projects/upload [post]
func (h fileHandler) uploadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(h.maxUploadMB << 20); err != nil {
			h.logger.Error().Err(err).Msg("Failed to parse multipart form")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}

		target, err := uploadTargetFromForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("file is required", "file", ""))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		result, err := h.uploader.UploadOne(r.Context(), target, services.Blob{
			Filename:    header.Filename,
			ContentType: contentType,
			Content:     file,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"message":    "File uploaded!",
			"project_id": result.ProjectID,
			"file_id":    result.FileID,
		})
	}
}

// uploadFiles stores a batch of files against one project
// @Summary Upload multiple files
// @Description Uploads a batch of files best-effort; individual failures are skipped
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to upload"
// @Param project_id formData int false "Existing project ID"
// @Param title formData string false "Title for an implicitly created project"
// @Param description formData string false "Description for an implicitly created project"
// @Success 200 {object} services.MultiUploadResult "Upload summary"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing target or empty batch"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/upload-multiple [post]
func (h fileHandler) uploadFiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(h.maxUploadMB << 20); err != nil {
			h.logger.Error().Err(err).Msg("Failed to parse multipart form")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}

		target, err := uploadTargetFromForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var headers []*multipart.FileHeader
		if r.MultipartForm != nil {
			headers = r.MultipartForm.File["files"]
		}

		blobs := make([]services.Blob, 0, len(headers))
		var closers []io.Closer
		defer func() {
			for _, c := range closers {
				c.Close()
			}
		}()

		for _, header := range headers {
			blob, closer, err := blobFromFileHeader(header)
			if err != nil {
				h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("Could not open uploaded file part")
				continue
			}
			closers = append(closers, closer)
			blobs = append(blobs, blob)
		}

		result, err := h.uploader.UploadMany(r.Context(), target, blobs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}

// listProjectFiles lists the file records attached to a project
// @Summary List project files
// @Description Retrieves all file records for a project, newest upload first
// @Tags Files
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {array} models.FileRecord "File records"
// @Router /projects/{projectID}/files [get]
func (h fileHandler) listProjectFiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		records, err := h.fileRepo.FindByProject(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "files", err))
			return
		}

		if records == nil {
			records = []*models.FileRecord{}
		}

		h.responder.WriteJSON(w, records)
	}
}

// downloadFile streams a stored blob back to the client
// @Summary Download file
// @Description Streams the stored file as an attachment
// @Tags Files
// @Produce application/octet-stream
// @Param fileID path int true "File ID"
// @Success 200 {file} binary "File content"
// @Failure 404 {object} ErrorResponse "Not Found - File record or blob missing"
// @Router /files/{fileID}/download [get]
func (h fileHandler) downloadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID, err := parseIDParam(r, "fileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		record, err := h.fileRepo.FindByID(fileID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "file", err))
			return
		}

		if record == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("file not found"))
			return
		}

		blob, err := h.store.Open(record.Filepath)
		if err != nil {
			if os.IsNotExist(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("file missing from storage"))
				return
			}
			h.responder.WriteError(w, errs.NewStorageFailureError("open", record.Filename, err))
			return
		}
		defer blob.Close()

		w.Header().Set("Content-Disposition", `attachment; filename="`+record.Filename+`"`)
		w.Header().Set("Content-Type", "application/octet-stream")

		if _, err := io.Copy(w, blob); err != nil {
			h.logger.Error().Err(err).Uint("fileID", fileID).Msg("Failed streaming file to client")
		}
	}
}

// deleteFile removes a file record and its blob
// @Summary Delete file
// @Description Deletes a file record; its blob is removed best-effort
// @Tags Files
// @Produce json
// @Param fileID path int true "File ID"
// @Success 200 {object} map[string]interface{} "Deletion summary"
// @Failure 404 {object} ErrorResponse "Not Found - File not found"
// @Router /files/{fileID} [delete]
func (h fileHandler) deleteFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID, err := parseIDParam(r, "fileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.deleter.DeleteFile(r.Context(), fileID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"message": "Deleted file",
			"file_id": fileID,
		})
	}
}

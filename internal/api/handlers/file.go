package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/rohits-web03/smartstore/internal/api/middleware"
	"github.com/rohits-web03/smartstore/internal/repositories"
	"github.com/rohits-web03/smartstore/internal/services"
	"github.com/rohits-web03/smartstore/internal/utils"
)

// uploadField is the multipart form field carrying the file.
const uploadField = "file"

type FileHandler struct {
	files          *services.FileService
	maxUploadBytes int64
	downloadTTL    time.Duration
}

func NewFileHandler(files *services.FileService, maxUploadBytes int64, downloadTTL time.Duration) *FileHandler {
	return &FileHandler{
		files:          files,
		maxUploadBytes: maxUploadBytes,
		downloadTTL:    downloadTTL,
	}
}

// POST /api/v1/files/upload
// UploadFile godoc
// @Summary Upload a file
// @Description Streams the multipart "file" part to the storage backend and records its metadata.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} utils.Payload{data=models.FileRecord}
// @Failure 400 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Failure 413 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Failure 502 {object} utils.Payload
// @Router /api/v1/files/upload [post]
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	mr, err := r.MultipartReader()
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_form", "Invalid file upload form")
		return
	}

	// Parts are consumed as a stream; only the first "file" part is stored.
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			utils.JSONError(w, http.StatusBadRequest, "missing_file", "No file provided")
			return
		}
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(w, r, err)
				return
			}
			utils.JSONError(w, http.StatusBadRequest, "invalid_form", "Invalid file upload form")
			return
		}
		if part.FormName() != uploadField {
			part.Close()
			continue
		}

		record, err := h.files.Upload(r.Context(), services.UploadInput{
			Filename:    rawFilename(part.Header.Get("Content-Disposition")),
			ContentType: part.Header.Get("Content-Type"),
			Body:        part,
		})
		part.Close()
		if err != nil {
			writeError(w, r, err)
			return
		}

		utils.JSONResponse(w, http.StatusCreated, utils.Payload{
			Success: true,
			Message: "File uploaded",
			Data:    record,
		})
		return
	}
}

// GET /api/v1/files
// ListFiles godoc
// @Summary List uploaded files
// @Description Returns every file record, newest first.
// @Tags Files
// @Produce json
// @Success 200 {object} utils.Payload{data=[]models.FileRecord}
// @Failure 500 {object} utils.Payload
// @Router /api/v1/files [get]
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	records, err := h.files.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Files retrieved successfully",
		Data:    records,
	})
}

// GET /api/v1/files/{id}
// GetFile godoc
// @Summary Get a file record
// @Tags Files
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} utils.Payload{data=models.FileRecord}
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/files/{id} [get]
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	record, err := h.files.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File retrieved successfully",
		Data:    record,
	})
}

// GET /api/v1/files/{id}/download
// DownloadFile godoc
// @Summary Download a file
// @Description Streams the blob from local storage, or redirects to a presigned URL for object storage.
// @Tags Files
// @Produce octet-stream
// @Param id path int true "File ID"
// @Success 200 {file} binary
// @Success 307 "Redirect to presigned URL"
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 502 {object} utils.Payload
// @Router /api/v1/files/{id}/download [get]
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	dl, err := h.files.Download(r.Context(), id, h.downloadTTL)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if dl.URL != "" {
		http.Redirect(w, r, dl.URL, http.StatusTemporaryRedirect)
		return
	}
	defer dl.Body.Close()

	rec := dl.Record
	w.Header().Set("Content-Type", rec.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rec.Filename}))
	if dl.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dl.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, dl.Body); err != nil {
		slog.Warn("Download interrupted",
			slog.String("request_id", middleware.RequestID(r.Context())),
			slog.Uint64("id", id),
			slog.String("error", err.Error()),
		)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(w, http.StatusBadRequest, "invalid_id", "Invalid file id")
		return 0, false
	}
	return id, true
}

// rawFilename reads the filename parameter without the base-name reduction
// multipart.Part.FileName applies, so traversal attempts reach validation
// instead of being rewritten.
func rawFilename(contentDisposition string) string {
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		maxBytesErr *http.MaxBytesError
		validErr    *services.ValidationError
		storageErr  *services.StorageError
		metaErr     *services.MetadataError
	)

	switch {
	case errors.As(err, &maxBytesErr):
		utils.JSONError(w, http.StatusRequestEntityTooLarge, "too_large", "Upload exceeds the size limit")
	case errors.As(err, &validErr):
		utils.JSONError(w, http.StatusBadRequest, "validation_error", validErr.Error())
	case errors.Is(err, repositories.ErrObjectExists):
		utils.JSONError(w, http.StatusConflict, "already_exists", "A file with this name already exists")
	case errors.As(err, &storageErr):
		utils.JSONError(w, http.StatusBadGateway, "storage_error", "Failed to store file")
	case errors.As(err, &metaErr):
		utils.JSONError(w, http.StatusInternalServerError, "metadata_error", "File stored but its metadata could not be saved")
	case errors.Is(err, repositories.ErrRecordNotFound):
		utils.JSONError(w, http.StatusNotFound, "not_found", "File not found")
	case errors.Is(err, services.ErrBlobMissing):
		utils.JSONError(w, http.StatusNotFound, "blob_missing", "Stored file content is missing")
	default:
		slog.Error("Request failed",
			slog.String("request_id", middleware.RequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// Package services composes the storage backend and the metadata store into
// the upload, list and download operations.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rohits-web03/smartstore/internal/metrics"
	"github.com/rohits-web03/smartstore/internal/models"
	"github.com/rohits-web03/smartstore/internal/repositories"
)

// ErrBlobMissing is returned by Download when a record points at a location
// the backend no longer has.
var ErrBlobMissing = errors.New("stored blob is missing")

type UploadInput struct {
	Filename    string
	ContentType string // optional
	Body        io.Reader
}

// Download holds either a presigned URL or an open blob reader. Callers must
// close Body when it is set. Size is the length of the blob as opened, or -1
// when the backend cannot tell; it can differ from Record.SizeBytes when a
// later upload replaced the blob.
type Download struct {
	Record *models.FileRecord
	URL    string
	Body   io.ReadCloser
	Size   int64
}

type FileService struct {
	storage repositories.Storage
	files   repositories.FileRepository
	cache   *lru.Cache[uint64, models.FileRecord]
	logger  *slog.Logger
}

// NewFileService wires a backend and a metadata store. cacheSize <= 0
// disables the record cache.
func NewFileService(storage repositories.Storage, files repositories.FileRepository, cacheSize int, logger *slog.Logger) (*FileService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FileService{
		storage: storage,
		files:   files,
		logger:  logger.With(slog.String("component", "file_service"), slog.String("backend", storage.Name())),
	}
	if cacheSize > 0 {
		cache, err := lru.New[uint64, models.FileRecord](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create record cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Upload writes the blob first and records it second. A record therefore
// never points at a blob that was not completely written. When the record
// write fails the blob stays behind and its location is reported in the
// returned *MetadataError.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*models.FileRecord, error) {
	backend := s.storage.Name()

	if err := validateFilename(in.Filename); err != nil {
		metrics.UploadsTotal.WithLabelValues(backend, metrics.ResultValidationError).Inc()
		return nil, err
	}
	if in.Body == nil {
		metrics.UploadsTotal.WithLabelValues(backend, metrics.ResultValidationError).Inc()
		return nil, &ValidationError{Field: "file", Reason: "file content is required"}
	}
	contentType := NormalizeContentType(in.ContentType)

	body := &countingReader{r: in.Body}
	location, err := s.storage.Persist(ctx, in.Filename, contentType, body)
	if errors.Is(err, repositories.ErrInvalidName) {
		// The backend refused a name that passed validation (e.g. a local
		// filesystem name limit). The request is still at fault.
		metrics.UploadsTotal.WithLabelValues(backend, metrics.ResultValidationError).Inc()
		return nil, nameError(err)
	}
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(backend, metrics.ResultStorageError).Inc()
		s.logger.Error("Failed to persist blob",
			slog.String("filename", in.Filename),
			slog.String("error", err.Error()),
		)
		return nil, &StorageError{Backend: backend, Err: err}
	}

	size := body.n
	record, err := s.files.Create(ctx, repositories.NewFile{
		Filename:    in.Filename,
		ContentType: contentType,
		StoragePath: location,
		SizeBytes:   &size,
	})
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(backend, metrics.ResultMetadataError).Inc()
		metrics.OrphanedBlobs.WithLabelValues(backend).Inc()
		s.logger.Warn("Blob stored without metadata record",
			slog.String("filename", in.Filename),
			slog.String("storage_path", location),
			slog.Int64("size", size),
			slog.String("error", err.Error()),
		)
		return nil, &MetadataError{Location: location, Err: err}
	}

	if s.cache != nil {
		s.cache.Add(record.ID, *record)
	}
	metrics.UploadsTotal.WithLabelValues(backend, metrics.ResultSuccess).Inc()
	metrics.UploadedBytes.WithLabelValues(backend).Add(float64(size))

	s.logger.Info("File uploaded",
		slog.Uint64("id", record.ID),
		slog.String("filename", record.Filename),
		slog.String("storage_path", record.StoragePath),
		slog.Int64("size", size),
	)
	return record, nil
}

// List returns every record, newest first.
func (s *FileService) List(ctx context.Context) ([]models.FileRecord, error) {
	return s.files.List(ctx)
}

func (s *FileService) Get(ctx context.Context, id uint64) (*models.FileRecord, error) {
	if s.cache != nil {
		if rec, ok := s.cache.Get(id); ok {
			return &rec, nil
		}
	}
	rec, err := s.files.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(rec.ID, *rec)
	}
	return rec, nil
}

// Download resolves a record to its blob. Backends that sign URLs yield a
// URL valid for ttl, others an open reader.
func (s *FileService) Download(ctx context.Context, id uint64, ttl time.Duration) (*Download, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.storage.Exists(ctx, rec.StoragePath)
	if err != nil {
		return nil, &StorageError{Backend: s.storage.Name(), Err: err}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlobMissing, rec.StoragePath)
	}

	if signer, ok := s.storage.(repositories.URLSigner); ok {
		url, err := signer.PresignGet(ctx, rec.StoragePath, ttl)
		if err != nil {
			return nil, &StorageError{Backend: s.storage.Name(), Err: err}
		}
		return &Download{Record: rec, URL: url}, nil
	}

	body, err := s.storage.Open(ctx, rec.StoragePath)
	if err != nil {
		if errors.Is(err, repositories.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBlobMissing, rec.StoragePath)
		}
		return nil, &StorageError{Backend: s.storage.Name(), Err: err}
	}
	return &Download{Record: rec, Body: body, Size: blobSize(body)}, nil
}

func blobSize(body io.ReadCloser) int64 {
	st, ok := body.(interface{ Stat() (fs.FileInfo, error) })
	if !ok {
		return -1
	}
	info, err := st.Stat()
	if err != nil {
		return -1
	}
	return info.Size()
}

func validateFilename(name string) error {
	if name == "" {
		return &ValidationError{Field: "filename", Reason: "filename is required", Err: repositories.ErrInvalidName}
	}
	if err := repositories.ValidateName(name); err != nil {
		return nameError(err)
	}
	return nil
}

func nameError(err error) *ValidationError {
	reason := strings.TrimPrefix(err.Error(), repositories.ErrInvalidName.Error()+": ")
	return &ValidationError{Field: "filename", Reason: reason, Err: err}
}

// NormalizeContentType drops parameters (charset etc.) and falls back to
// application/octet-stream.
func NormalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return models.DefaultContentType
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if contentType == "" {
		return models.DefaultContentType
	}
	return contentType
}

// countingReader records how many bytes the backend actually consumed.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

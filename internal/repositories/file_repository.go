package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rohits-web03/smartstore/internal/models"
)

var ErrRecordNotFound = errors.New("file record not found")

// NewFile carries the fields a caller controls when creating a record. ID and
// CreatedAt are always assigned by the repository.
type NewFile struct {
	Filename    string
	ContentType string
	StoragePath string
	SizeBytes   *int64
}

// FileRepository persists FileRecords. Records are append-only.
type FileRepository interface {
	// Create commits a new record and returns it with ID and CreatedAt set.
	Create(ctx context.Context, in NewFile) (*models.FileRecord, error)
	// List returns every record, newest first.
	List(ctx context.Context) ([]models.FileRecord, error)
	Get(ctx context.Context, id uint64) (*models.FileRecord, error)
}

// GormFileRepository stores records in the files table of a relational
// database (Postgres in production, SQLite for local runs and tests).
type GormFileRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db, now: time.Now}
}

func (r *GormFileRepository) Create(ctx context.Context, in NewFile) (*models.FileRecord, error) {
	// timestamptz keeps microseconds, so the returned record matches what
	// List and Get read back.
	record := models.FileRecord{
		Filename:    in.Filename,
		ContentType: in.ContentType,
		StoragePath: in.StoragePath,
		SizeBytes:   in.SizeBytes,
		CreatedAt:   r.now().UTC().Truncate(time.Microsecond),
	}
	// Single INSERT ... RETURNING id: the row is either fully visible or absent.
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("insert file record: %w", err)
	}
	return &record, nil
}

func (r *GormFileRepository) List(ctx context.Context) ([]models.FileRecord, error) {
	records := make([]models.FileRecord, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list file records: %w", err)
	}
	return records, nil
}

func (r *GormFileRepository) Get(ctx context.Context, id uint64) (*models.FileRecord, error) {
	var record models.FileRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	switch {
	case err == nil:
		return &record, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("%w: id %d", ErrRecordNotFound, id)
	default:
		return nil, fmt.Errorf("get file record %d: %w", id, err)
	}
}

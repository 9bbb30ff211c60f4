package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rohits-web03/smartstore/internal/models"
)

// MemoryFileRepository keeps records in process memory. Data is lost on
// restart; it backs tests and METADATA_STORE=memory.
type MemoryFileRepository struct {
	mu      sync.RWMutex
	nextID  uint64
	records []models.FileRecord
	now     func() time.Time
}

func NewMemoryFileRepository() *MemoryFileRepository {
	return &MemoryFileRepository{now: time.Now}
}

func (r *MemoryFileRepository) Create(ctx context.Context, in NewFile) (*models.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	record := models.FileRecord{
		ID:          r.nextID,
		Filename:    in.Filename,
		ContentType: in.ContentType,
		StoragePath: in.StoragePath,
		SizeBytes:   copySize(in.SizeBytes),
		CreatedAt:   r.now().UTC().Truncate(time.Microsecond),
	}
	r.records = append(r.records, record)

	out := record
	return &out, nil
}

func (r *MemoryFileRepository) List(ctx context.Context) ([]models.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]models.FileRecord, len(r.records))
	copy(out, r.records)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryFileRepository) Get(ctx context.Context, id uint64) (*models.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ID == id {
			out := rec
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrRecordNotFound, id)
}

func copySize(v *int64) *int64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

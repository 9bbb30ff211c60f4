package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rohits-web03/smartstore/internal/config"
)

// steppingClock returns start, start+1s, start+2s, ...
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Second)
		return now
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newSQLiteRepository(t *testing.T) *GormFileRepository {
	t.Helper()
	db, err := ConnectDatabase(config.DatabaseConfig{
		Driver:     config.MetadataSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "meta", "smartstore.db"),
	})
	if err != nil {
		t.Fatalf("ConnectDatabase: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return NewGormFileRepository(db)
}

type repoFactory func(t *testing.T, now func() time.Time) FileRepository

var repositoryVariants = map[string]repoFactory{
	"memory": func(t *testing.T, now func() time.Time) FileRepository {
		r := NewMemoryFileRepository()
		r.now = now
		return r
	},
	"sqlite": func(t *testing.T, now func() time.Time) FileRepository {
		r := newSQLiteRepository(t)
		r.now = now
		return r
	},
}

func int64Ptr(v int64) *int64 { return &v }

func TestFileRepository_Contract(t *testing.T) {
	for name, newRepo := range repositoryVariants {
		t.Run(name, func(t *testing.T) {
			runRepositoryContract(t, newRepo)
		})
	}
}

func runRepositoryContract(t *testing.T, newRepo repoFactory) {
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run("empty list", func(t *testing.T) {
		repo := newRepo(t, time.Now)
		records, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if records == nil || len(records) != 0 {
			t.Errorf("want empty non-nil slice, got %#v", records)
		}
	})

	t.Run("create returns populated record", func(t *testing.T) {
		repo := newRepo(t, fixedClock(start))
		rec, err := repo.Create(context.Background(), NewFile{
			Filename:    "report.pdf",
			ContentType: "application/pdf",
			StoragePath: "/data/uploads/report.pdf",
			SizeBytes:   int64Ptr(5),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rec.ID == 0 {
			t.Error("id not assigned")
		}
		if rec.Filename != "report.pdf" || rec.ContentType != "application/pdf" || rec.StoragePath != "/data/uploads/report.pdf" {
			t.Errorf("fields not preserved: %+v", rec)
		}
		if rec.SizeBytes == nil || *rec.SizeBytes != 5 {
			t.Errorf("size: %v", rec.SizeBytes)
		}
		if !rec.CreatedAt.Equal(start) {
			t.Errorf("created_at: want %s, got %s", start, rec.CreatedAt)
		}

		got, err := repo.Get(context.Background(), rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.ID != rec.ID || got.Filename != rec.Filename {
			t.Errorf("Get returned %+v", got)
		}
	})

	t.Run("unknown size stays nil", func(t *testing.T) {
		repo := newRepo(t, time.Now)
		rec, err := repo.Create(context.Background(), NewFile{Filename: "stream.bin", ContentType: "application/octet-stream", StoragePath: "k"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := repo.Get(context.Background(), rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.SizeBytes != nil {
			t.Errorf("want nil size, got %d", *got.SizeBytes)
		}
	})

	t.Run("ids increase and list is newest first", func(t *testing.T) {
		repo := newRepo(t, steppingClock(start))
		ctx := context.Background()

		var ids []uint64
		for _, name := range []string{"one.txt", "two.txt", "three.txt"} {
			rec, err := repo.Create(ctx, NewFile{Filename: name, ContentType: "text/plain", StoragePath: name})
			if err != nil {
				t.Fatalf("Create %s: %v", name, err)
			}
			ids = append(ids, rec.ID)
		}
		if !(ids[0] < ids[1] && ids[1] < ids[2]) {
			t.Fatalf("ids not strictly increasing: %v", ids)
		}

		records, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		want := []string{"three.txt", "two.txt", "one.txt"}
		if len(records) != len(want) {
			t.Fatalf("want %d records, got %d", len(want), len(records))
		}
		for i, name := range want {
			if records[i].Filename != name {
				t.Errorf("position %d: want %s, got %s", i, name, records[i].Filename)
			}
		}
	})

	t.Run("same timestamp falls back to id order", func(t *testing.T) {
		repo := newRepo(t, fixedClock(start))
		ctx := context.Background()
		for _, name := range []string{"a", "b"} {
			if _, err := repo.Create(ctx, NewFile{Filename: name, ContentType: "text/plain", StoragePath: name}); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}
		records, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(records) != 2 || records[0].Filename != "b" || records[1].Filename != "a" {
			t.Errorf("unexpected order: %+v", records)
		}
	})

	t.Run("created_at is stored at microsecond precision", func(t *testing.T) {
		repo := newRepo(t, fixedClock(start.Add(123456789*time.Nanosecond)))
		ctx := context.Background()

		created, err := repo.Create(ctx, NewFile{Filename: "p.txt", ContentType: "text/plain", StoragePath: "p.txt"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		want := start.Add(123456 * time.Microsecond)
		if !created.CreatedAt.Equal(want) {
			t.Errorf("Create: want %s, got %s", want, created.CreatedAt)
		}

		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("stored %s, returned %s", got.CreatedAt, created.CreatedAt)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t, time.Now)
		if _, err := repo.Get(context.Background(), 42); !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("want ErrRecordNotFound, got %v", err)
		}
	})
}

func TestMemoryFileRepository_ConcurrentCreates(t *testing.T) {
	repo := NewMemoryFileRepository()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Create(ctx, NewFile{Filename: "same.txt", ContentType: "text/plain", StoragePath: "same.txt"}); err != nil {
				t.Errorf("Create: %v", err)
			}
		}()
	}
	wg.Wait()

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != n {
		t.Fatalf("want %d records, got %d", n, len(records))
	}
	seen := make(map[uint64]bool)
	for _, rec := range records {
		if seen[rec.ID] {
			t.Errorf("duplicate id %d", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestMemoryFileRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryFileRepository()
	ctx := context.Background()

	rec, err := repo.Create(ctx, NewFile{Filename: "a.txt", ContentType: "text/plain", StoragePath: "a.txt", SizeBytes: int64Ptr(1)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec.Filename = "mutated"
	*rec.SizeBytes = 99

	got, err := repo.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Filename != "a.txt" || *got.SizeBytes != 1 {
		t.Errorf("stored record was mutated through the returned pointer: %+v", got)
	}
}

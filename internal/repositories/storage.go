package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rohits-web03/smartstore/internal/config"
)

var (
	ErrInvalidName    = errors.New("invalid file name")
	ErrObjectExists   = errors.New("object already exists")
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketRequired = errors.New("bucket name is required for the s3 storage backend")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// MaxFilenameLength is counted in runes.
const MaxFilenameLength = 512

// Storage persists blobs and hands back an opaque location string.
// Implementations are selected once at startup by NewStorage.
type Storage interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Persist writes everything read from r under filename and returns the
	// location of the blob. The blob is complete when Persist returns nil.
	Persist(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	// Open returns a reader for a location previously returned by Persist.
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	// Exists reports whether a blob is present at location.
	Exists(ctx context.Context, location string) (bool, error)
}

// URLSigner is implemented by backends that can hand out time-limited
// download links instead of proxying bytes.
type URLSigner interface {
	PresignGet(ctx context.Context, location string, expires time.Duration) (string, error)
}

// ValidateName rejects names that are empty, too long or that could escape
// the storage root. Names are never rewritten.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case utf8.RuneCountInString(name) > MaxFilenameLength:
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxFilenameLength)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is not a file name", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: name contains a NUL byte", ErrInvalidName)
	}
	return nil
}

// NewStorage builds the backend named by cfg.Backend.
func NewStorage(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendLocal, "":
		policy, err := ParseCollisionPolicy(cfg.CollisionPolicy)
		if err != nil {
			return nil, err
		}
		return NewLocalStorage(cfg.LocalDir, policy)
	case config.BackendS3:
		return NewObjectStorage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

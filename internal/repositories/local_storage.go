package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// CollisionPolicy decides what LocalStorage does when the target name is taken.
type CollisionPolicy string

const (
	// CollisionOverwrite atomically replaces the existing file. Concurrent
	// writers of one name resolve to last-rename-wins.
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionReject fails with ErrObjectExists.
	CollisionReject CollisionPolicy = "reject"
	// CollisionRename stores the blob as name-1.ext, name-2.ext, ...
	CollisionRename CollisionPolicy = "rename"
)

const (
	defaultChunkSize  = 1 << 20 // 1 MiB
	maxRenameAttempts = 10000
)

func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CollisionOverwrite, nil
	case CollisionOverwrite, CollisionReject, CollisionRename:
		return p, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q", s)
	}
}

// LocalStorage stores blobs as flat files under a single root directory.
type LocalStorage struct {
	root      string
	policy    CollisionPolicy
	chunkSize int
}

func NewLocalStorage(root string, policy CollisionPolicy) (*LocalStorage, error) {
	if root == "" {
		return nil, errors.New("local upload directory is not configured")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir %s: %w", root, err)
	}
	if policy == "" {
		policy = CollisionOverwrite
	}
	return &LocalStorage{root: abs, policy: policy, chunkSize: defaultChunkSize}, nil
}

func (s *LocalStorage) Name() string { return "local" }

// Root returns the absolute directory blobs are written to.
func (s *LocalStorage) Root() string { return s.root }

func (s *LocalStorage) Policy() CollisionPolicy { return s.policy }

// Persist streams r into root/filename and returns the absolute path. Data is
// staged in a temp file and only published after a successful fsync, so a
// failed or interrupted upload never leaves a truncated file under the
// requested name.
func (s *LocalStorage) Persist(ctx context.Context, filename, _ string, r io.Reader) (string, error) {
	if err := ValidateName(filename); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir %s: %w", s.root, err)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := copyChunks(ctx, tmp, r, s.chunkSize); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("fsync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close %s: %w", tmpPath, err)
	}

	target, err := s.publish(tmpPath, filename)
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return target, nil
}

func (s *LocalStorage) publish(tmpPath, filename string) (string, error) {
	switch s.policy {
	case CollisionReject:
		target := filepath.Join(s.root, filename)
		if err := os.Link(tmpPath, target); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return "", fmt.Errorf("%w: %s", ErrObjectExists, filename)
			}
			return "", publishError(target, err)
		}
		os.Remove(tmpPath)
		return target, nil

	case CollisionRename:
		for i := 0; i < maxRenameAttempts; i++ {
			target := filepath.Join(s.root, suffixedName(filename, i))
			err := os.Link(tmpPath, target)
			if err == nil {
				os.Remove(tmpPath)
				return target, nil
			}
			if !errors.Is(err, fs.ErrExist) {
				return "", publishError(target, err)
			}
		}
		return "", fmt.Errorf("%w: no free name for %s after %d attempts", ErrObjectExists, filename, maxRenameAttempts)

	default:
		target := filepath.Join(s.root, filename)
		if err := os.Rename(tmpPath, target); err != nil {
			return "", publishError(target, err)
		}
		return target, nil
	}
}

func (s *LocalStorage) Open(_ context.Context, location string) (io.ReadCloser, error) {
	path, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, location)
		}
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	return f, nil
}

func (s *LocalStorage) Exists(_ context.Context, location string) (bool, error) {
	path, err := s.resolve(location)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// publishError reports names the filesystem refuses as too long (usually
// over 255 bytes) as ErrInvalidName.
func publishError(target string, err error) error {
	if errors.Is(err, syscall.ENAMETOOLONG) {
		return fmt.Errorf("%w: name is too long for the local filesystem", ErrInvalidName)
	}
	return fmt.Errorf("publish %s: %w", target, err)
}

// resolve only accepts locations that sit directly under root.
func (s *LocalStorage) resolve(location string) (string, error) {
	path := filepath.Clean(location)
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	if filepath.Dir(path) != s.root {
		return "", fmt.Errorf("%w: %s is outside %s", ErrInvalidName, location, s.root)
	}
	return path, nil
}

// copyChunks moves r into w through one fixed buffer so memory use does not
// grow with the payload. ctx is checked between chunks.
func copyChunks(ctx context.Context, w io.Writer, r io.Reader, chunkSize int) error {
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write chunk: %w", werr)
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("read upload: %w", rerr)
		}
	}
}

// suffixedName returns name for attempt 0 and name-N.ext afterwards.
func suffixedName(name string, attempt int) string {
	if attempt == 0 {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" {
		return fmt.Sprintf("%s-%d", name, attempt)
	}
	return fmt.Sprintf("%s-%d%s", base, attempt, ext)
}

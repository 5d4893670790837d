package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	metaSuffix   = ".meta"
	lockFileName = ".reelcut.lock"
	lockRetry    = 50 * time.Millisecond
)

// Filesystem maps keys to files under a root directory. Each data file has a
// JSON sidecar holding its content type, etag, and size. Writers take an
// advisory lock on the root so two reelcut processes never interleave a save.
type Filesystem struct {
	root string
	mu   sync.Mutex
	lock *flock.Flock
}

type metaFile struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewFilesystem returns a store rooted at root, creating the directory if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("blob: filesystem root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Filesystem{root: root, lock: flock.New(filepath.Join(root, lockFileName))}, nil
}

func (s *Filesystem) Driver() Driver { return DriverFilesystem }

// Root returns the directory holding the blobs.
func (s *Filesystem) Root() string { return s.root }

func (s *Filesystem) pathFor(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func (s *Filesystem) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquire blob lock: %w", err)
	}
	if !ok {
		return errors.New("acquire blob lock: not acquired")
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

func (s *Filesystem) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	dataPath, err := s.pathFor(key)
	if err != nil {
		return Info{}, err
	}
	var info Info
	err = s.withLock(ctx, func() error {
		if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
			return err
		}
		tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
		if err != nil {
			return err
		}
		defer func() { _ = os.Remove(tmp.Name()) }()

		h := sha256.New()
		size, err := io.Copy(io.MultiWriter(tmp, h), r)
		if err != nil {
			_ = tmp.Close()
			return err
		}
		if err := tmp.Sync(); err != nil {
			_ = tmp.Close()
			return err
		}
		if err := tmp.Close(); err != nil {
			return err
		}
		if err := os.Rename(tmp.Name(), dataPath); err != nil {
			return err
		}

		mf := metaFile{
			ContentType: opts.ContentType,
			Metadata:    cloneMetadata(opts.Metadata),
			ETag:        hex.EncodeToString(h.Sum(nil)),
			Size:        size,
			UpdatedAt:   time.Now().UTC(),
		}
		if err := writeMeta(dataPath+metaSuffix, mf); err != nil {
			return err
		}
		info = mf.info(key)
		return nil
	})
	if err != nil {
		return Info{}, fmt.Errorf("put %s: %w", key, err)
	}
	return info, nil
}

func (s *Filesystem) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	dataPath, err := s.pathFor(key)
	if err != nil {
		return Info{}, nil, err
	}
	file, err := os.Open(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, nil, ErrNotFound
	}
	if err != nil {
		return Info{}, nil, err
	}
	mf, err := readMeta(dataPath + metaSuffix)
	if err != nil {
		_ = file.Close()
		return Info{}, nil, err
	}
	return mf.info(key), file, nil
}

func (s *Filesystem) Head(_ context.Context, key string) (Info, error) {
	dataPath, err := s.pathFor(key)
	if err != nil {
		return Info{}, err
	}
	mf, err := readMeta(dataPath + metaSuffix)
	if err != nil {
		return Info{}, err
	}
	return mf.info(key), nil
}

func (s *Filesystem) Delete(ctx context.Context, key string) (bool, error) {
	dataPath, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	var existed bool
	err = s.withLock(ctx, func() error {
		if err := os.Remove(dataPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		existed = true
		_ = os.Remove(dataPath + metaSuffix)
		return nil
	})
	return existed, err
}

func (s *Filesystem) List(_ context.Context, prefix string) ([]Info, error) {
	var infos []Info
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, metaSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, strings.TrimSuffix(path, metaSuffix))
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		mf, err := readMeta(path)
		if err != nil {
			return err
		}
		infos = append(infos, mf.info(key))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (m metaFile) info(key string) Info {
	return Info{
		Key:          key,
		Size:         m.Size,
		ContentType:  m.ContentType,
		ETag:         m.ETag,
		Metadata:     cloneMetadata(m.Metadata),
		LastModified: m.UpdatedAt,
	}
}

func writeMeta(path string, mf metaFile) error {
	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readMeta(path string) (metaFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return metaFile{}, ErrNotFound
	}
	if err != nil {
		return metaFile{}, err
	}
	var mf metaFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return metaFile{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return mf, nil
}

package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// File keeps every key in one JSON object on disk:
//
//	{"@todos": "[{\"id\":\"1700000000000\", ...}]"}
//
// Writes are read-modify-write under an exclusive flock on path+".lock" and
// land through a temp file + rename. Reads take a shared lock.
type File struct {
	path string
	lock *flock.Flock
}

const (
	lockTimeout    = 3 * time.Second
	lockRetryDelay = 100 * time.Millisecond
)

// OpenFile returns a File backend for path. The file is created on first Set.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("kv file: empty path")
	}
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	// Nothing was ever written when the directory is missing; the lock file
	// cannot be created there either.
	if _, err := os.Stat(filepath.Dir(f.path)); errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := f.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", false, fmt.Errorf("kv file: lock: %w", err)
	}
	if !locked {
		return "", false, errors.New("kv file: lock: not acquired")
	}
	defer func() { _ = f.lock.Unlock() }()

	data, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	if err := f.ensureDir(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := f.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("kv file: lock: %w", err)
	}
	if !locked {
		return errors.New("kv file: lock: not acquired")
	}
	defer func() { _ = f.lock.Unlock() }()

	data, err := f.read()
	if err != nil {
		return err
	}
	data[key] = value

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("kv file: marshal: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("kv file: write temp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("kv file: rename: %w", err)
	}
	return nil
}

func (f *File) Close() error {
	return f.lock.Close()
}

// read loads the whole object. Caller holds the lock.
func (f *File) read() (map[string]string, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("kv file: read: %w", err)
	}
	data := map[string]string{}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("kv file: parse %s: %w", f.path, err)
	}
	return data, nil
}

func (f *File) ensureDir() error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("kv file: mkdir: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/contactrelay/backend/internal/model"
)

// FileSubmissionRepository stores submissions as a single JSON array on disk.
//
// Every Append rewrites the whole file. Appends from this process are
// serialized; separate processes sharing the file can still lose updates.
type FileSubmissionRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileSubmissionRepository creates a repository backed by the file at path.
// The file is created on the first Append.
func NewFileSubmissionRepository(path string) *FileSubmissionRepository {
	return &FileSubmissionRepository{path: path}
}

var _ SubmissionRepository = (*FileSubmissionRepository)(nil)

// Path returns the backing file location.
func (r *FileSubmissionRepository) Path() string { return r.path }

func (r *FileSubmissionRepository) Load(_ context.Context) ([]*model.Submission, error) {
	return r.load()
}

func (r *FileSubmissionRepository) load() ([]*model.Submission, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*model.Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: read %s: %w", r.path, err)
	}

	var subs []*model.Submission
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("repository: %w: %s: %v", ErrParse, r.path, err)
	}
	// A file holding "null" decodes to a nil slice.
	if subs == nil {
		subs = []*model.Submission{}
	}
	return subs, nil
}

// Append loads the current array, appends sub and writes the array back.
// The write goes to a temporary file that replaces the original on success.
func (r *FileSubmissionRepository) Append(_ context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, err := r.load()
	if err != nil {
		return err
	}
	subs = append(subs, sub)

	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("repository: encode: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("repository: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("repository: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("repository: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repository: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("repository: rename: %w", err)
	}
	return nil
}

// Ping checks that the directory holding the file exists.
func (r *FileSubmissionRepository) Ping(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(r.path))
	if err != nil {
		return fmt.Errorf("repository: stat: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository: %s is not a directory", filepath.Dir(r.path))
	}
	return nil
}

// Package storage persists credential material and the application history.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sevigo/apply-warden/internal/core"
)

// cookieFile is the on-disk layout of <dir>/<account>.json.
type cookieFile struct {
	Cookies core.Material `json:"cookies"`
}

// FileCredentialStore keeps one JSON file per account in a directory.
type FileCredentialStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileCredentialStore(dir string) *FileCredentialStore {
	return &FileCredentialStore{dir: dir}
}

func (s *FileCredentialStore) path(accountID string) (string, error) {
	if accountID == "" || strings.ContainsAny(accountID, `/\`) || accountID == "." || accountID == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountID, accountID)
	}
	return filepath.Join(s.dir, accountID+".json"), nil
}

func (s *FileCredentialStore) Load(_ context.Context, accountID string) (core.Material, error) {
	path, err := s.path(accountID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to read cookies for %s: %w", accountID, err)
	}

	var f cookieFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse cookies for %s: %w", accountID, err)
	}
	if len(f.Cookies) == 0 {
		return nil, fmt.Errorf("%w: %s has no cookies", ErrCredentialNotFound, accountID)
	}
	return f.Cookies, nil
}

// Save replaces the account's file atomically.
func (s *FileCredentialStore) Save(_ context.Context, accountID string, material core.Material) error {
	path, err := s.path(accountID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cookieFile{Cookies: material.Clone()}, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create cookies dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+accountID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write cookies: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cookies: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace cookies file: %w", err)
	}
	return nil
}

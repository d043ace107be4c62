package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSlot keeps every key in one JSON document on disk:
//
//	{"tasklist_tasks": [{"id": "...", "text": "...", "completed": false}]}
//
// Writes go to a temp file in the same directory and are renamed over the
// document.
type FileSlot struct {
	mu   sync.Mutex
	path string
}

func NewFileSlot(path string) (*FileSlot, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("file slot path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileSlot{path: path}, nil
}

func (s *FileSlot) Path() string { return s.path }

func (s *FileSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readLocked()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (s *FileSlot) Set(ctx context.Context, key string, value []byte) error {
	_ = ctx
	if !json.Valid(value) {
		return ErrInvalidValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readLocked()
	if err != nil {
		// An unreadable document is replaced, the same way an unparsable
		// value is treated as absent on read.
		doc = map[string]json.RawMessage{}
	}
	doc[key] = append(json.RawMessage(nil), value...)
	return s.writeLocked(doc)
}

func (s *FileSlot) Close() error { return nil }

func (s *FileSlot) readLocked() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	doc := map[string]json.RawMessage{}
	if len(strings.TrimSpace(string(b))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}

func (s *FileSlot) writeLocked(doc map[string]json.RawMessage) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const DEFAULT_STORE_FILE = "/tmp/pcat2_arc_face_settings.json"

// Store is a flat integer key/value store that survives restarts.
type Store interface {
	Exists(key int) bool
	ReadInt(key int) int
	WriteInt(key int, value int) error
}

// FileStore keeps the values in memory and rewrites the JSON file on every
// write, so a successful WriteInt is already on disk.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	values map[int]int
}

// openFileStore loads path if it exists; a missing file starts empty.
func openFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: make(map[int]int)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("No settings file at %s, starting fresh", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding settings file %s: %w", path, err)
	}
	for k, v := range raw {
		key, err := strconv.Atoi(k)
		if err != nil {
			log.Printf("Ignoring settings key %q: %v", k, err)
			continue
		}
		s.values[key] = v
	}
	log.Printf("Loaded %d settings from %s", len(s.values), path)
	return s, nil
}

func (s *FileStore) Exists(key int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

func (s *FileStore) ReadInt(key int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *FileStore) WriteInt(key int, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.values[key]
	s.values[key] = value
	if err := s.save(); err != nil {
		// keep memory and disk in agreement
		if existed {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

// save writes through a temp file and rename. Caller holds s.mu.
func (s *FileStore) save() error {
	raw := make(map[string]int, len(s.values))
	for k, v := range s.values {
		raw[strconv.Itoa(k)] = v
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating settings dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}

// openStore opens the settings file at path, or an in-memory store when
// path is empty.
func openStore(path string) (Store, error) {
	if path == "" {
		log.Println("No settings path, keeping settings in memory")
		return newMemStore(), nil
	}
	fs, err := openFileStore(path)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// memStore is an in-memory Store; settings last until the process exits.
// Previews and an empty store.path use it.
type memStore struct {
	values map[int]int
}

func newMemStore() *memStore {
	return &memStore{values: make(map[int]int)}
}

func (s *memStore) Exists(key int) bool {
	_, ok := s.values[key]
	return ok
}

func (s *memStore) ReadInt(key int) int { return s.values[key] }

func (s *memStore) WriteInt(key int, value int) error {
	s.values[key] = value
	return nil
}

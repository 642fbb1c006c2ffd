package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists annotation payloads. Implementations receive their
// configuration at construction; nothing reads ambient globals.
type Store interface {
	Save(imageID string, p Payload) error
	Load(imageID string) (Payload, error)
}

// FileStore keeps one annotation file per image under a base directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create annotation directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the annotation file path for an image id.
func (s *FileStore) Path(imageID string) string {
	return filepath.Join(s.dir, sanitize(imageID)+".json")
}

// Save writes the payload for an image.
func (s *FileStore) Save(imageID string, p Payload) error {
	data, err := p.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode annotations: %w", err)
	}
	return os.WriteFile(s.Path(imageID), data, 0644)
}

// Load reads the payload for an image.
func (s *FileStore) Load(imageID string) (Payload, error) {
	data, err := os.ReadFile(s.Path(imageID))
	if err != nil {
		return Payload{}, err
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("failed to parse annotation file: %w", err)
	}
	return p, nil
}

// sanitize maps an image id onto a safe file name.
func sanitize(id string) string {
	out := []rune(id)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			out[i] = '_'
		}
	}
	return string(out)
}

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/amishk599/jobwatch/internal/model"
)

// Ensure JSONStore implements model.NotifiedStore.
var _ model.NotifiedStore = (*JSONStore)(nil)

// notifiedFile is the on-disk layout: {"notified": ["JR2005814", ...]}.
type notifiedFile struct {
	Notified []model.JobID `json:"notified"`
}

// JSONStore keeps the notified set in a single human-readable JSON file.
// It does no locking; concurrent runs race and the last writer wins.
type JSONStore struct {
	path   string
	logger *slog.Logger
}

// NewJSONStore returns a store backed by the file at path. The file does not
// need to exist yet.
func NewJSONStore(path string, logger *slog.Logger) *JSONStore {
	return &JSONStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string { return s.path }

// Load reads the notified set. A missing, unreadable or malformed file yields
// an empty set.
func (s *JSONStore) Load() *model.NotifiedSet {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("notified store absent, starting empty", "path", s.path)
		} else {
			s.logger.Warn("notified store unreadable, starting empty", "path", s.path, "error", err)
		}
		return model.NewNotifiedSet()
	}

	var f notifiedFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warn("notified store corrupt, starting empty", "path", s.path, "error", err)
		return model.NewNotifiedSet()
	}
	return model.NewNotifiedSet(f.Notified...)
}

// Save overwrites the file with the full set. The new content is written to a
// temporary file in the same directory and renamed into place.
func (s *JSONStore) Save(set *model.NotifiedSet) error {
	data, err := json.MarshalIndent(notifiedFile{Notified: set.IDs()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding notified set: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	s.logger.Debug("notified store saved", "path", s.path, "ids", set.Len())
	return nil
}

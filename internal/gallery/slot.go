package gallery

import (
	"fmt"
	"os"
	"path/filepath"
)

// SlotName is the fixed namespaced key under which the gallery sequence is
// persisted, mirroring the single named browser-storage slot of the original
// dashboard.
const SlotName = "planktos_gallery_v1.json"

// Slot is the durable storage slot holding the JSON-encoded gallery
// sequence. Read reports whether the slot exists so a first run can be told
// apart from a read failure.
type Slot interface {
	Read() (data []byte, exists bool, err error)
	Write(data []byte) error
}

// FileSlot persists the gallery sequence as a single JSON file under the
// configured data directory.
type FileSlot struct {
	path string
}

// NewFileSlot returns a FileSlot rooted at dir using the fixed slot name.
func NewFileSlot(dir string) *FileSlot {
	return &FileSlot{path: filepath.Join(dir, SlotName)}
}

// Path returns the backing file path.
func (s *FileSlot) Path() string {
	return s.path
}

// Read returns the slot contents. A missing file is not an error, it simply
// reports exists=false.
func (s *FileSlot) Read() ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read gallery slot %s: %w", s.path, err)
	}
	return data, true, nil
}

// Write replaces the slot contents. The write goes through a temp file and
// rename so a crash mid-write cannot corrupt the slot.
func (s *FileSlot) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create gallery directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, SlotName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp slot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write gallery slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp slot file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace gallery slot: %w", err)
	}
	return nil
}

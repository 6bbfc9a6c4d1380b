package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Resume is what the terminal browser remembers between runs: the entity
// that was centred, not the metric it was sorted by.
type Resume struct {
	CenteredID *int      `json:"centered_id,omitempty"`
	DataPath   string    `json:"data_path,omitempty"`
	SavedAt    time.Time `json:"saved_at"`
}

// ResumeFile stores one [Resume] as a JSON file.
type ResumeFile struct {
	mu   sync.Mutex
	path string
}

// NewResumeFile creates a resume file handle. If dir is empty, defaults to
// ~/.config/bubblerow/. The directory is created on first save.
func NewResumeFile(dir string) (*ResumeFile, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		dir = filepath.Join(base, "bubblerow")
	}
	return &ResumeFile{path: filepath.Join(dir, "resume.json")}, nil
}

// Load reads the saved state. The boolean is false when nothing was saved
// or the file is unreadable; a broken file is never fatal for the browser.
func (f *ResumeFile) Load() (Resume, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return Resume{}, false
	}
	var r Resume
	if err := json.Unmarshal(data, &r); err != nil {
		os.Remove(f.path)
		return Resume{}, false
	}
	return r, true
}

// Save writes r, stamping SavedAt.
func (f *ResumeFile) Save(r Resume) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create resume dir: %w", err)
	}
	r.SavedAt = time.Now()
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal resume: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write resume file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write resume file: %w", err)
	}
	return nil
}

// Clear removes the saved state.
func (f *ResumeFile) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove resume file: %w", err)
	}
	return nil
}

// Path returns the resume file path.
func (f *ResumeFile) Path() string {
	return f.path
}

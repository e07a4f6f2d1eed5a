package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Store holds the settings document and persists it to a JSON file. All
// mutations validate against the current document, write the full file
// (tmp+rename), and only then swap the in-memory copy — a failed write never
// leaves partial state on disk or in memory.
type Store struct {
	path string
	log  zerolog.Logger

	mu  sync.RWMutex
	cur Settings

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Open loads the settings file, creating it with defaults if missing.
func Open(path string, log zerolog.Logger) (*Store, error) {
	st := &Store{path: path, log: log}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		st.cur = Default()
		if err := st.write(st.cur); err != nil {
			return nil, fmt.Errorf("write default settings: %w", err)
		}
		log.Info().Str("path", path).Msg("created default settings file")
	case err != nil:
		return nil, fmt.Errorf("read settings: %w", err)
	default:
		var s Settings
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", path, err)
		}
		st.cur = withDefaults(s)
	}

	return st, nil
}

// withDefaults fills nil maps and normalizes base URLs after a load.
func withDefaults(s Settings) Settings {
	if s.APIKeys == nil {
		s.APIKeys = map[string]string{}
	}
	if s.Models == nil {
		s.Models = map[string]string{}
	}
	if s.SelectedLanguage == "" {
		s.SelectedLanguage = LanguageAuto
	}
	for i := range s.Providers {
		s.Providers[i].BaseURL = normalizeBaseURL(s.Providers[i].BaseURL)
	}
	return s
}

// Snapshot returns a deep copy of the current settings. Each transcription
// attempt captures exactly one snapshot.
func (st *Store) Snapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.cur.Clone()
}

// SetEnabled toggles the transcription feature flag.
func (st *Store) SetEnabled(enabled bool) error {
	return st.mutate(func(s *Settings) error {
		s.Enabled = enabled
		return nil
	})
}

// SetActiveProvider selects the provider used for new attempts. The id must
// reference an existing provider.
func (st *Store) SetActiveProvider(id string) error {
	return st.mutate(func(s *Settings) error {
		if _, ok := s.ProviderByID(id); !ok {
			return &ProviderNotFoundError{ID: id}
		}
		s.ProviderID = id
		return nil
	})
}

// SetBaseURL changes a provider's base URL. Only the custom provider allows
// this.
func (st *Store) SetBaseURL(id, baseURL string) error {
	return st.mutate(func(s *Settings) error {
		for i := range s.Providers {
			if s.Providers[i].ID != id {
				continue
			}
			if !s.Providers[i].Editable() {
				return &BaseURLNotEditableError{Label: s.Providers[i].Label}
			}
			s.Providers[i].BaseURL = normalizeBaseURL(baseURL)
			return nil
		}
		return &ProviderNotFoundError{ID: id}
	})
}

// SetAPIKey stores the secret for a provider. An empty key is allowed;
// unauthenticated requests are permitted.
func (st *Store) SetAPIKey(id, key string) error {
	return st.mutate(func(s *Settings) error {
		if _, ok := s.ProviderByID(id); !ok {
			return &ProviderNotFoundError{ID: id}
		}
		s.APIKeys[id] = key
		return nil
	})
}

// SetModel stores the model name for a provider.
func (st *Store) SetModel(id, model string) error {
	return st.mutate(func(s *Settings) error {
		if _, ok := s.ProviderByID(id); !ok {
			return &ProviderNotFoundError{ID: id}
		}
		s.Models[id] = model
		return nil
	})
}

// SetLanguage stores the selected language ("auto" means server-side
// detection).
func (st *Store) SetLanguage(lang string) error {
	return st.mutate(func(s *Settings) error {
		if lang == "" {
			lang = LanguageAuto
		}
		s.SelectedLanguage = lang
		return nil
	})
}

// AddProvider appends a provider with a unique id.
func (st *Store) AddProvider(p Provider) error {
	return st.mutate(func(s *Settings) error {
		if _, ok := s.ProviderByID(p.ID); ok {
			return &DuplicateProviderError{ID: p.ID}
		}
		p.BaseURL = normalizeBaseURL(p.BaseURL)
		s.Providers = append(s.Providers, p)
		return nil
	})
}

// EditProvider updates the label of an existing provider.
func (st *Store) EditProvider(id, label string) error {
	return st.mutate(func(s *Settings) error {
		for i := range s.Providers {
			if s.Providers[i].ID == id {
				s.Providers[i].Label = label
				return nil
			}
		}
		return &ProviderNotFoundError{ID: id}
	})
}

// mutate runs fn against a copy of the current settings, persists the copy,
// and swaps it in on success.
func (st *Store) mutate(fn func(*Settings) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.cur.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := st.write(next); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	st.cur = next
	return nil
}

// write marshals the document and replaces the file atomically.
func (st *Store) write(s Settings) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, st.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Watch reloads the settings file when something else writes it (e.g. a
// hand edit). Watches the parent directory because editors and our own
// tmp+rename replace the file inode.
func (st *Store) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(st.path)); err != nil {
		w.Close()
		return err
	}
	st.watcher = w
	st.done = make(chan struct{})

	go st.watchLoop()
	st.log.Info().Str("path", st.path).Msg("watching settings file")
	return nil
}

func (st *Store) watchLoop() {
	// Debounce: editors fire bursts of Create/Write for one save.
	var timer *time.Timer
	for {
		select {
		case <-st.done:
			return
		case event, ok := <-st.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(st.path) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(100*time.Millisecond, st.reload)
		case err, ok := <-st.watcher.Errors:
			if !ok {
				return
			}
			st.log.Error().Err(err).Msg("settings watcher error")
		}
	}
}

func (st *Store) reload() {
	b, err := os.ReadFile(st.path)
	if err != nil {
		st.log.Warn().Err(err).Msg("settings reload: read failed")
		return
	}
	var s Settings
	if err := json.Unmarshal(b, &s); err != nil {
		st.log.Warn().Err(err).Msg("settings reload: parse failed, keeping current settings")
		return
	}

	st.mu.Lock()
	st.cur = withDefaults(s)
	st.mu.Unlock()
	st.log.Info().Msg("settings reloaded from disk")
}

// Close stops the watcher if one is running.
func (st *Store) Close() {
	if st.watcher != nil {
		close(st.done)
		st.watcher.Close()
	}
}

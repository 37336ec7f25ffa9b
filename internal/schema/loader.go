package schema

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Loader resolves the active schema. Resolution order: a previously
// user-saved schema, then the remote default schema resource, then the
// built-in fallback. Load never fails; a usable schema always comes
// back.
type Loader struct {
	// Path is where a user-saved schema persists across restarts.
	Path string
	// RemoteURL is the default schema resource. Empty disables the
	// remote step.
	RemoteURL string
	// Client is used for the remote fetch; http.DefaultClient when nil.
	Client *http.Client
	// Fallback is the last-resort schema; schema.Fallback() when its
	// field list is empty.
	Fallback Schema

	Log *zap.Logger
}

// NewLoader builds a loader with the given persistence path and remote
// schema resource.
func NewLoader(path, remoteURL string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Path: path, RemoteURL: remoteURL, Log: log}
}

// Load resolves the active schema. Failures at each step fall through
// to the next and are logged, never surfaced.
func (l *Loader) Load() Schema {
	if s, ok := l.loadSaved(); ok {
		return s
	}
	if s, ok := l.loadRemote(); ok {
		return s
	}
	if len(l.Fallback.Fields) > 0 {
		return l.Fallback
	}
	return Fallback()
}

func (l *Loader) loadSaved() (Schema, bool) {
	if l.Path == "" {
		return Schema{}, false
	}
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.logger().Warn("reading saved schema", zap.String("path", l.Path), zap.Error(err))
		}
		return Schema{}, false
	}
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		l.logger().Warn("saved schema is not valid JSON, falling back", zap.Error(err))
		return Schema{}, false
	}
	if err := s.Validate(); err != nil {
		l.logger().Warn("saved schema is invalid, falling back", zap.Error(err))
		return Schema{}, false
	}
	return s, true
}

func (l *Loader) loadRemote() (Schema, bool) {
	if l.RemoteURL == "" {
		return Schema{}, false
	}
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Get(l.RemoteURL)
	if err != nil {
		l.logger().Warn("fetching remote schema", zap.Error(err))
		return Schema{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		l.logger().Warn("remote schema not available", zap.Int("status", resp.StatusCode))
		return Schema{}, false
	}
	var s Schema
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		l.logger().Warn("decoding remote schema", zap.Error(err))
		return Schema{}, false
	}
	if err := s.Validate(); err != nil {
		l.logger().Warn("remote schema is invalid", zap.Error(err))
		return Schema{}, false
	}
	return s, true
}

// Save persists a schema so it survives restarts and takes precedence
// over the remote default on the next Load.
func (l *Loader) Save(s Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.Path, raw, 0o644)
}

// Clear removes the saved schema; the next Load falls through to the
// remote or built-in default. Clearing an absent schema is a no-op.
func (l *Loader) Clear() error {
	err := os.Remove(l.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (l *Loader) logger() *zap.Logger {
	if l.Log != nil {
		return l.Log
	}
	return zap.NewNop()
}

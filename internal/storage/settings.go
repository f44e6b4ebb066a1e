package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pomodoro/internal/core/model"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the name of the settings file inside the config directory.
const SettingsFileName = "settings.yaml"

// Keys of the settings file.
const (
	KeyCountPomodoros   = "countPomodoros"
	KeyPomoLength       = "pomoLength"
	KeySmallPauseLength = "smallPauseLength"
	KeyBigPauseLength   = "bigPauseLength"
)

type yamlSettings struct {
	CountPomodoros   int `yaml:"countPomodoros"`
	PomoLength       int `yaml:"pomoLength"`
	SmallPauseLength int `yaml:"smallPauseLength"`
	BigPauseLength   int `yaml:"bigPauseLength"`
}

// Store is the key/value settings file of the application.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the settings file.
func (store *Store) Dir() string {
	return store.dir
}

// Path returns the settings file path.
func (store *Store) Path() string {
	return filepath.Join(store.dir, SettingsFileName)
}

// LoadConfiguration resolves the configuration and writes it back so the file
// always holds every key. Errors are logged and never returned: a missing,
// unreadable or malformed file yields defaults.
func (store *Store) LoadConfiguration() model.Configuration {
	config, err := store.Resolve()
	if err != nil {
		slog.Warn("Using default settings", "path", store.Path(), "error", err)
	}
	if err := store.Save(config); err != nil {
		slog.Warn("Failed to persist settings", "path", store.Path(), "error", err)
	}
	return config
}

// Resolve reads the settings file without modifying it. Keys that are
// missing, malformed or not positive fall back to their defaults. The
// returned configuration is always usable, even alongside an error.
func (store *Store) Resolve() (model.Configuration, error) {
	config := model.DefaultConfiguration()

	rawData, err := os.ReadFile(store.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read settings file: %w", err)
	}

	var fileData map[string]any
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyValue(&config.PomosBeforeLongBreak, fileData, KeyCountPomodoros)
	applyValue(&config.WorkSeconds, fileData, KeyPomoLength)
	applyValue(&config.ShortBreakSeconds, fileData, KeySmallPauseLength)
	applyValue(&config.LongBreakSeconds, fileData, KeyBigPauseLength)
	return config, nil
}

// Save writes the configuration to the settings file.
func (store *Store) Save(config model.Configuration) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		CountPomodoros:   config.PomosBeforeLongBreak,
		PomoLength:       config.WorkSeconds,
		SmallPauseLength: config.ShortBreakSeconds,
		BigPauseLength:   config.LongBreakSeconds,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(store.Path(), serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applyValue(target *int, fileData map[string]any, key string) {
	raw, ok := fileData[key]
	if !ok {
		return
	}
	value, ok := positiveInt(raw)
	if !ok {
		slog.Debug("Ignoring invalid setting", "key", key, "value", raw)
		return
	}
	*target = value
}

func positiveInt(raw any) (int, bool) {
	var value int
	switch typed := raw.(type) {
	case int:
		value = typed
	case int64:
		if typed > math.MaxInt32 {
			return 0, false
		}
		value = int(typed)
	case uint64:
		if typed > math.MaxInt32 {
			return 0, false
		}
		value = int(typed)
	case float64:
		if typed != math.Trunc(typed) || typed > math.MaxInt32 {
			return 0, false
		}
		value = int(typed)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		value = parsed
	default:
		return 0, false
	}
	if value <= 0 {
		return 0, false
	}
	return value, true
}

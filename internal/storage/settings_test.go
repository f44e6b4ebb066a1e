package storage

import (
	"os"
	"path/filepath"
	"testing"

	"pomodoro/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readRaw(t *testing.T, store *Store) map[string]any {
	t.Helper()
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	return raw
}

func writeRaw(t *testing.T, store *Store, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))
}

func TestLoadConfigurationFromEmptyStorePersistsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "Pomodoro"))

	config := store.LoadConfiguration()
	assert.Equal(t, model.DefaultConfiguration(), config)

	raw := readRaw(t, store)
	assert.Equal(t, map[string]any{
		KeyCountPomodoros:   4,
		KeyPomoLength:       1500,
		KeySmallPauseLength: 300,
		KeyBigPauseLength:   900,
	}, raw)
}

func TestLoadConfigurationKeepsStoredValues(t *testing.T) {
	store := NewStore(t.TempDir())
	writeRaw(t, store, "countPomodoros: 2\npomoLength: 60\nsmallPauseLength: 10\nbigPauseLength: 30\n")

	config := store.LoadConfiguration()
	assert.Equal(t, model.Configuration{
		PomosBeforeLongBreak: 2,
		WorkSeconds:          60,
		ShortBreakSeconds:    10,
		LongBreakSeconds:     30,
	}, config)
}

func TestLoadConfigurationFillsMissingAndMalformedKeys(t *testing.T) {
	store := NewStore(t.TempDir())
	writeRaw(t, store, "countPomodoros: lots\npomoLength: \"120\"\nbigPauseLength: -4\nunrelated: true\n")

	config := store.LoadConfiguration()
	assert.Equal(t, model.Configuration{
		PomosBeforeLongBreak: 4,
		WorkSeconds:          120,
		ShortBreakSeconds:    300,
		LongBreakSeconds:     900,
	}, config)

	raw := readRaw(t, store)
	assert.Equal(t, 4, raw[KeyCountPomodoros])
	assert.Equal(t, 120, raw[KeyPomoLength])
	assert.Equal(t, 300, raw[KeySmallPauseLength])
	assert.Equal(t, 900, raw[KeyBigPauseLength])
	assert.NotContains(t, raw, "unrelated")
}

func TestLoadConfigurationRecoversFromBrokenYAML(t *testing.T) {
	store := NewStore(t.TempDir())
	writeRaw(t, store, "countPomodoros: [1, 2\n")

	config := store.LoadConfiguration()
	assert.Equal(t, model.DefaultConfiguration(), config)

	resolved, err := store.Resolve()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfiguration(), resolved)
}

func TestLoadConfigurationUnreadableStoreFallsBackToDefaults(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, os.MkdirAll(store.Path(), 0o755))

	config := store.LoadConfiguration()
	assert.Equal(t, model.DefaultConfiguration(), config)

	_, err := store.Resolve()
	assert.Error(t, err)
}

func TestResolveDoesNotWrite(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested"))

	config, err := store.Resolve()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfiguration(), config)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestResolveAcceptsWholeFloats(t *testing.T) {
	store := NewStore(t.TempDir())
	writeRaw(t, store, "pomoLength: 90.0\nsmallPauseLength: 12.5\n")

	config, err := store.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 90, config.WorkSeconds)
	assert.Equal(t, 300, config.ShortBreakSeconds)
}

func TestSaveRejectsInvalidConfiguration(t *testing.T) {
	store := NewStore(t.TempDir())
	config := model.DefaultConfiguration()
	config.WorkSeconds = 0

	err := store.Save(config)
	require.ErrorIs(t, err, model.ErrInvalidConfiguration)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveThenResolveRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	config := model.Configuration{PomosBeforeLongBreak: 3, WorkSeconds: 50, ShortBreakSeconds: 7, LongBreakSeconds: 20}
	require.NoError(t, store.Save(config))

	resolved, err := store.Resolve()
	require.NoError(t, err)
	assert.Equal(t, config, resolved)
}

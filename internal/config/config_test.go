package config_test

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"notepad/internal/config"
	"notepad/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary config file
func createTestConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const (
	validYAML = `
editor:
  default_type: ".py"
  mark_new_modified: false
file_types:
  - tag: ".txt"
    label: "Text Files"
  - tag: ".py"
    label: "Python Files"
    keywords: ["def", "pass"]
    line_comment: "#"
    quotes: ['"']
theme:
  keyword:
    color: "#0000FF"
    bold: true
`
	validTOML = `
[editor]
default_type = ".go"

[[file_types]]
tag = ".txt"
label = "Text Files"

[[file_types]]
tag = ".go"
label = "Go Files"
keywords = ["func", "package"]
line_comment = "//"
quotes = ['"', "'"]

[window]
width = 1024.0
`
	invalidSyntaxYAML = `
editor:
  default_type: ".py
file_types: [
`
	unknownDefaultYAML = `
editor:
  default_type: ".rs"
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid yaml", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestConfig(t, "config.yaml", validYAML))
		require.NoError(t, err)

		assert.Equal(t, ".py", cfg.Editor.DefaultType)
		assert.False(t, cfg.Editor.MarkNewModified)
		require.Len(t, cfg.FileTypes, 2)
		assert.Equal(t, []string{"def", "pass"}, cfg.FileTypes[1].Keywords)
		assert.Equal(t, "#0000FF", cfg.Theme.Keyword.Color)

		// Unset values keep their defaults
		assert.Equal(t, "Untitled", cfg.Editor.UntitledName)
		assert.Equal(t, " *", cfg.Editor.ModifiedMarker)
		assert.Equal(t, "#6A9955", cfg.Theme.Comment.Color)
	})

	t.Run("load valid toml", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestConfig(t, "config.toml", validTOML))
		require.NoError(t, err)

		assert.Equal(t, ".go", cfg.Editor.DefaultType)
		require.Len(t, cfg.FileTypes, 2)
		assert.Equal(t, "//", cfg.FileTypes[1].LineComment)
		assert.Equal(t, float32(1024), cfg.Window.Width)
		assert.Equal(t, float32(600), cfg.Window.Height)
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestConfig(t, "config.yaml", invalidSyntaxYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing config file")
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("unknown default type", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestConfig(t, "config.yaml", unknownDefaultYAML))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ".txt", cfg.Editor.DefaultType)
	assert.True(t, cfg.Editor.MarkNewModified)
	require.Len(t, cfg.FileTypes, 2)
	assert.Equal(t, ".txt", cfg.FileTypes[0].Tag)
	assert.Equal(t, ".py", cfg.FileTypes[1].Tag)
	assert.Contains(t, cfg.FileTypes[1].Keywords, "def")
	assert.Contains(t, cfg.FileTypes[1].Keywords, "pass")

	test := config.NewTestConfig()
	assert.False(t, test.Editor.OpenUntitled)
	assert.False(t, test.Editor.WatchFiles)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"nil file types", func(c *config.Config) { c.FileTypes = nil }, "at least one file type"},
		{"empty tag", func(c *config.Config) { c.FileTypes[0].Tag = "" }, "tag is required"},
		{"bad tag", func(c *config.Config) { c.FileTypes[1].Tag = "py" }, "must look like"},
		{"glob tag", func(c *config.Config) { c.FileTypes[1].Tag = ".p*" }, "must look like"},
		{"duplicate tag", func(c *config.Config) { c.FileTypes[1].Tag = ".TXT" }, "duplicate tag"},
		{"long quote", func(c *config.Config) { c.FileTypes[1].Quotes = []string{`"""`} }, "single character"},
		{"empty untitled", func(c *config.Config) { c.Editor.UntitledName = "" }, "untitled name"},
		{"empty marker", func(c *config.Config) { c.Editor.ModifiedMarker = "" }, "modified marker"},
		{"bad theme color", func(c *config.Config) { c.Theme.Comment.Color = "green" }, "theme comment"},
		{"negative window", func(c *config.Config) { c.Window.Width = -1 }, "window size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	var nilCfg *config.Config
	assert.True(t, errors.IsInvalidConfig(nilCfg.Validate()))
}

func TestFormatRGBA(t *testing.T) {
	c, err := config.Format{Color: "#569CD6"}.RGBA()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x56, G: 0x9c, B: 0xd6, A: 0xff}, c)

	c, err = config.Format{}.RGBA()
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = config.Format{Color: "#12"}.RGBA()
	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.New()
	cfg.Editor.DefaultType = ".py"
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := config.New()
	cfg.Editor.DefaultType = ".py"
	cfg.Theme.Keyword.Color = "#112233"
	require.NoError(t, config.SaveConfig(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[editor]")

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, ".py", loaded.Editor.DefaultType)
	assert.Equal(t, "#112233", loaded.Theme.Keyword.Color)
	assert.Len(t, loaded.FileTypes, len(cfg.FileTypes))
}

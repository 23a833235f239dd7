package config

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"notepad/internal/errors"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// FileType describes one entry of the file-type selector and the
// highlighting syntax that goes with it.
type FileType struct {
	Tag         string   `yaml:"tag" toml:"tag"`                                       // Extension tag, e.g. ".py"
	Label       string   `yaml:"label" toml:"label"`                                   // Dialog filter label, e.g. "Python Files"
	Keywords    []string `yaml:"keywords,omitempty" toml:"keywords,omitempty"`         // Words styled as keywords
	LineComment string   `yaml:"line_comment,omitempty" toml:"line_comment,omitempty"` // Line comment leader, empty for none
	Quotes      []string `yaml:"quotes,omitempty" toml:"quotes,omitempty"`             // String delimiters, highlighted in order
}

// Format is how one highlight style is drawn.
type Format struct {
	Color  string `yaml:"color" toml:"color"`
	Bold   bool   `yaml:"bold" toml:"bold"`
	Italic bool   `yaml:"italic" toml:"italic"`
}

// RGBA parses Color as a "#rrggbb" hex value. An empty Color yields nil,
// meaning the renderer's own color for the style.
func (f Format) RGBA() (color.Color, error) {
	if f.Color == "" {
		return nil, nil
	}
	c, err := colorful.Hex(f.Color)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid color %q", f.Color)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Config represents the application configuration structure.
type Config struct {
	Editor struct {
		DefaultType     string `yaml:"default_type" toml:"default_type"`           // Tag seeding new tabs
		MarkNewModified bool   `yaml:"mark_new_modified" toml:"mark_new_modified"` // New tabs start with the modified marker
		OpenUntitled    bool   `yaml:"open_untitled" toml:"open_untitled"`         // Open an empty tab at startup
		UntitledName    string `yaml:"untitled_name" toml:"untitled_name"`         // Base title for unsaved tabs
		ModifiedMarker  string `yaml:"modified_marker" toml:"modified_marker"`     // Suffix shown on modified tabs
		WatchFiles      bool   `yaml:"watch_files" toml:"watch_files"`             // Notice edits made by other programs
	} `yaml:"editor" toml:"editor"`
	FileTypes []FileType `yaml:"file_types" toml:"file_types"`
	Theme     struct {
		Keyword Format `yaml:"keyword" toml:"keyword"`
		Comment Format `yaml:"comment" toml:"comment"`
		String  Format `yaml:"string" toml:"string"`
	} `yaml:"theme" toml:"theme"`
	Window struct {
		Title  string  `yaml:"title" toml:"title"`
		Width  float32 `yaml:"width" toml:"width"`
		Height float32 `yaml:"height" toml:"height"`
	} `yaml:"window" toml:"window"`
	Log struct {
		Debug bool   `yaml:"debug" toml:"debug"`
		File  string `yaml:"file" toml:"file"`
	} `yaml:"log" toml:"log"`
}

// DefaultPath returns ~/.config/notepad/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "notepad", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/notepad/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// Files ending in .toml are decoded as TOML, anything else as YAML.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "error reading config file")
	}

	// Decoding on top of the defaults keeps values the file leaves unset.
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", path, errors.InvalidConfig, err)
	}
	return cfg, nil
}

// New returns the default configuration: plain text plus Python.
func New() *Config {
	cfg := &Config{}

	cfg.Editor.DefaultType = ".txt"
	cfg.Editor.MarkNewModified = true
	cfg.Editor.OpenUntitled = true
	cfg.Editor.UntitledName = "Untitled"
	cfg.Editor.ModifiedMarker = " *"
	cfg.Editor.WatchFiles = true

	cfg.FileTypes = []FileType{
		{Tag: ".txt", Label: "Text Files"},
		{
			Tag:   ".py",
			Label: "Python Files",
			Keywords: []string{
				"def", "class", "return", "if", "elif", "else", "try", "except",
				"finally", "import", "from", "as", "with", "for", "while", "in",
				"not", "and", "or", "is", "pass", "break", "continue", "lambda",
				"yield", "raise", "global", "nonlocal", "del", "assert", "async",
				"await", "None", "True", "False",
			},
			LineComment: "#",
			Quotes:      []string{`"`, `'`},
		},
	}

	cfg.Theme.Keyword = Format{Color: "#569CD6", Bold: true}
	cfg.Theme.Comment = Format{Color: "#6A9955", Italic: true}
	cfg.Theme.String = Format{Color: "#CE9178"}

	cfg.Window.Title = "Notepad"
	cfg.Window.Width = 800
	cfg.Window.Height = 600

	return cfg
}

// NewTestConfig returns defaults with startup side effects disabled.
func NewTestConfig() *Config {
	cfg := New()
	cfg.Editor.OpenUntitled = false
	cfg.Editor.WatchFiles = false
	return cfg
}

// SaveConfig saves the configuration to the specified file, as TOML when
// the path ends in .toml and as YAML otherwise.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return errors.Wrap(err, "failed to marshal config")
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return errors.Wrap(err, "failed to marshal config")
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrInvalidConfig
	}
	if len(c.FileTypes) == 0 {
		return errors.New("at least one file type is required")
	}

	seen := make(map[string]bool, len(c.FileTypes))
	for i, ft := range c.FileTypes {
		tag := strings.ToLower(ft.Tag)
		if tag == "" {
			return errors.Newf("file type %d: tag is required", i)
		}
		if !strings.HasPrefix(tag, ".") || strings.ContainsAny(tag[1:], `./\*?`) || len(tag) == 1 {
			return errors.Newf("file type %d: tag %q must look like \".ext\"", i, ft.Tag)
		}
		if seen[tag] {
			return errors.Newf("file type %d: duplicate tag %s", i, ft.Tag)
		}
		seen[tag] = true
		for _, q := range ft.Quotes {
			if len([]rune(q)) != 1 {
				return errors.Newf("file type %s: quote %q must be a single character", ft.Tag, q)
			}
		}
	}

	if !seen[strings.ToLower(c.Editor.DefaultType)] {
		return errors.Newf("default type %q is not a registered file type", c.Editor.DefaultType)
	}
	if c.Editor.UntitledName == "" {
		return errors.New("untitled name cannot be empty")
	}
	if c.Editor.ModifiedMarker == "" {
		return errors.New("modified marker cannot be empty")
	}
	for name, f := range map[string]Format{
		"keyword": c.Theme.Keyword,
		"comment": c.Theme.Comment,
		"string":  c.Theme.String,
	} {
		if _, err := f.RGBA(); err != nil {
			return errors.Wrapf(err, "theme %s", name)
		}
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return errors.New("window size must not be negative")
	}
	return nil
}

// Package document holds the in-memory state of one open file: its text,
// path, file type, modified flag and highlighting rules.
package document

import (
	"bytes"
	"os"
	"unicode/utf8"

	"notepad/internal/errors"
	"notepad/internal/filetype"
	"notepad/internal/highlight"
)

// Store reads and writes whole files.
type Store interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// OSStore is the Store backed by the local file system.
type OSStore struct{}

func (OSStore) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSStore) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// Document is one open file. The zero value is not usable; use New.
type Document struct {
	registry *filetype.Registry
	store    Store

	text      string
	persisted string // text as of the last successful load or save
	path      string
	fileType  *filetype.FileType
	modified  bool
}

// New creates an empty, unsaved document of type ft. A nil ft selects the
// registry default.
func New(registry *filetype.Registry, store Store, ft *filetype.FileType) *Document {
	if ft == nil {
		ft = registry.Default()
	}
	if store == nil {
		store = OSStore{}
	}
	return &Document{registry: registry, store: store, fileType: ft}
}

// Open creates a document and loads path into it.
func Open(registry *filetype.Registry, store Store, path string) (*Document, error) {
	d := New(registry, store, nil)
	if err := d.Load(path); err != nil {
		return nil, err
	}
	return d, nil
}

// Load replaces the document with the contents of path. On failure the
// document is left untouched.
func (d *Document) Load(path string) error {
	data, err := d.read(path)
	if err != nil {
		return err
	}

	d.text = string(data)
	d.persisted = d.text
	d.path = path
	d.fileType = d.registry.FromPath(path)
	d.modified = false
	return nil
}

// Save writes the text to path and adopts path as the document's own.
// On failure the document is left untouched.
func (d *Document) Save(path string) error {
	if path == "" {
		return errors.NewFileError("no file name given", "", errors.InvalidPath, nil)
	}
	if !utf8.ValidString(d.text) {
		return errors.NewFileError("text is not valid UTF-8", path, errors.InvalidEncoding, nil)
	}
	if err := d.store.WriteFile(path, []byte(d.text)); err != nil {
		return errors.WriteError(path, err)
	}

	d.persisted = d.text
	d.path = path
	d.fileType = d.registry.FromPath(path)
	d.modified = false
	return nil
}

// SetText replaces the buffer. Any edit marks the document modified.
func (d *Document) SetText(text string) {
	d.text = text
	d.modified = true
}

// SetFileType switches highlighting without touching text or the
// modified flag. A nil ft selects the registry default.
func (d *Document) SetFileType(ft *filetype.FileType) {
	if ft == nil {
		ft = d.registry.Default()
	}
	d.fileType = ft
}

// MarkModified flags the document as having unsaved changes.
func (d *Document) MarkModified() {
	d.modified = true
}

// ChangedOnDisk reports whether the stored file differs from the text
// last loaded or saved. Documents without a path never change on disk.
func (d *Document) ChangedOnDisk() (bool, error) {
	if d.path == "" {
		return false, nil
	}
	data, err := d.read(d.path)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(data, []byte(d.persisted)), nil
}

func (d *Document) read(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.NewFileError("no file name given", "", errors.InvalidPath, nil)
	}
	data, err := d.store.ReadFile(path)
	if err != nil {
		return nil, errors.ReadError(path, err)
	}
	if !utf8.Valid(data) {
		return nil, errors.NewFileError("file is not valid UTF-8 text", path, errors.InvalidEncoding, nil)
	}
	return data, nil
}

func (d *Document) Text() string                 { return d.text }
func (d *Document) Path() string                 { return d.path }
func (d *Document) Modified() bool               { return d.modified }
func (d *Document) FileType() *filetype.FileType { return d.fileType }

// Rules returns the highlighting rules of the current file type.
func (d *Document) Rules() []highlight.Rule {
	return d.fileType.Rules
}

// Highlight splits the text into styled per-line segments.
func (d *Document) Highlight() [][]highlight.Segment {
	return highlight.Text(d.fileType.Rules, d.text)
}

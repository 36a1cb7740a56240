// Package document implements structured JSON documents on top of ports.FileSystem.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Document        = (*JSONFile)(nil)
	_ ports.DocumentFactory = (*Factory)(nil)
)

// JSONFile is a JSON document stored at a fixed path.
type JSONFile struct {
	fs     ports.FileSystem
	path   string
	indent string
}

// NewJSONFile returns the JSON document at path, serialized with indent.
func NewJSONFile(fs ports.FileSystem, path, indent string) *JSONFile {
	return &JSONFile{fs: fs, path: path, indent: indent}
}

// Path returns the absolute path of the document.
func (f *JSONFile) Path() string {
	return f.path
}

// Exists reports whether the document is present in storage.
func (f *JSONFile) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	exists, err := f.fs.Exists(f.path)
	if err != nil {
		return false, errors.Join(domain.ErrStorageReadFailed,
			zerr.With(zerr.Wrap(err, "failed to stat document"), "path", f.path))
	}
	return exists, nil
}

// Read returns the raw document text.
func (f *JSONFile) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := f.fs.ReadFile(f.path)
	if err != nil {
		return nil, errors.Join(domain.ErrStorageReadFailed,
			zerr.With(zerr.Wrap(err, "failed to read document"), "path", f.path))
	}
	return data, nil
}

// Decode parses raw document text into v.
func (f *JSONFile) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(domain.ErrMalformedManifest,
			zerr.With(zerr.Wrap(err, "failed to parse document"), "path", f.path))
	}
	return nil
}

// Encode serializes v with the document's indentation, without HTML escaping
// and with a trailing newline.
func (f *JSONFile) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", f.indent)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Join(domain.ErrManifestEncodeFailed,
			zerr.With(zerr.Wrap(err, "failed to encode document"), "path", f.path))
	}
	return buf.Bytes(), nil
}

// Save serializes v and replaces the stored document with the result.
func (f *JSONFile) Save(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := f.Encode(v)
	if err != nil {
		return err
	}
	if err := f.fs.WriteFile(f.path, data, domain.FilePerm); err != nil {
		return errors.Join(domain.ErrStorageWriteFailed,
			zerr.With(zerr.Wrap(err, "failed to write document"), "path", f.path))
	}
	return nil
}

// Factory opens JSON documents on a file system.
type Factory struct {
	fs ports.FileSystem
}

// NewFactory creates a Factory backed by fs.
func NewFactory(fs ports.FileSystem) *Factory {
	return &Factory{fs: fs}
}

// Open returns the manifest-formatted JSON document at path.
func (f *Factory) Open(path string) ports.Document {
	return NewJSONFile(f.fs, path, domain.ManifestIndent)
}

package ports

import "context"

// Document is a structured file at a fixed path. It reads, parses, serializes
// and persists whole documents; partial updates are not supported.
//
//go:generate mockgen -source=document.go -destination=mocks/mock_document.go -package=mocks
type Document interface {
	// Path returns the absolute path of the document.
	Path() string
	// Exists reports whether the document is present in storage.
	Exists(ctx context.Context) (bool, error)
	// Read returns the raw document text.
	Read(ctx context.Context) ([]byte, error)
	// Decode parses raw document text into v.
	Decode(data []byte, v any) error
	// Encode serializes v in the document's canonical format.
	Encode(v any) ([]byte, error)
	// Save serializes v and replaces the stored document with the result.
	Save(ctx context.Context, v any) error
}

// DocumentFactory opens structured documents by path.
type DocumentFactory interface {
	// Open returns the document stored at path. It performs no I/O.
	Open(path string) Document
}

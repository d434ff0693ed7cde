package service

import "context"

// Thumbnailer generates a preview image for a stored file and returns the
// thumbnail's storage-relative path. Implementations are optional,
// best-effort capabilities: failures are logged by the caller and never
// propagate to the upload result.
type Thumbnailer interface {
	Generate(ctx context.Context, relativePath, mimeType string) (string, error)
}

// TextExtractor pulls searchable text out of a stored file. Like Thumbnailer
// it is an optional capability; the registry behaves identically without it.
type TextExtractor interface {
	Extract(ctx context.Context, relativePath, mimeType string) (string, error)
}

type noopThumbnailer struct{}

func (noopThumbnailer) Generate(ctx context.Context, relativePath, mimeType string) (string, error) {
	return "", nil
}

// NoopThumbnailer returns a Thumbnailer that does nothing. It is the default
// so the registry's logic stays identical whether or not a real capability
// is configured.
func NoopThumbnailer() Thumbnailer { return noopThumbnailer{} }

type noopTextExtractor struct{}

func (noopTextExtractor) Extract(ctx context.Context, relativePath, mimeType string) (string, error) {
	return "", nil
}

// NoopTextExtractor returns a TextExtractor that extracts nothing.
func NoopTextExtractor() TextExtractor { return noopTextExtractor{} }

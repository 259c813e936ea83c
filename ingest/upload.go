// Package ingest guards external input before parsing: upload size and
// content-type checks, and a directory watcher for automatic imports.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// MaxUploadBytes is the hard upper bound on input size, enforced before
// parsing begins so worst-case parse cost stays bounded.
const MaxUploadBytes = 10 << 20 // 10 MiB

// Upload rejection reasons.
const (
	ReasonOversized       = "oversized"
	ReasonUnsupportedType = "unsupported_type"
)

// UploadError is a fail-fast rejection detected before any parsing or
// mutation.
type UploadError struct {
	Reason string
	Msg    string
}

// Error implements the error interface.
func (e *UploadError) Error() string { return e.Msg }

var acceptedExtensions = map[string]bool{
	".ttl":    true,
	".turtle": true,
	".rdf":    true,
}

// acceptedContentTypes are the declared types accepted outright;
// genericContentTypes fall back to the extension check.
var acceptedContentTypes = map[string]bool{
	"text/turtle":           true,
	"application/x-turtle":  true,
	"application/rdf+xml":   true,
}

var genericContentTypes = map[string]bool{
	"text/plain":               true,
	"application/octet-stream": true,
	"": true,
}

// ValidateUpload checks a declared upload against the size cap and the
// accepted extensions and content types. It never reads the stream.
func ValidateUpload(filename, contentType string, size int64) error {
	if size > MaxUploadBytes {
		return &UploadError{
			Reason: ReasonOversized,
			Msg:    fmt.Sprintf("file is %d bytes; the limit is %d", size, MaxUploadBytes),
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	declared := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}

	if acceptedContentTypes[declared] {
		return nil
	}
	if genericContentTypes[declared] && acceptedExtensions[ext] {
		return nil
	}
	return &UploadError{
		Reason: ReasonUnsupportedType,
		Msg:    fmt.Sprintf("unsupported upload %q (content type %q); accepted extensions: .ttl, .turtle, .rdf", filename, contentType),
	}
}

// ReadAll reads the stream while enforcing the size cap, guarding
// against declared sizes that lie.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, &UploadError{
			Reason: ReasonOversized,
			Msg:    fmt.Sprintf("input exceeds the %d byte limit", MaxUploadBytes),
		}
	}
	return data, nil
}

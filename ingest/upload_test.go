package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		wantReason  string
	}{
		{"turtle extension", "onto.ttl", "", 100, ""},
		{"turtle extension uppercase", "ONTO.TTL", "", 100, ""},
		{"long extension", "onto.turtle", "", 100, ""},
		{"rdf extension", "onto.rdf", "", 100, ""},
		{"declared turtle type", "whatever.bin", "text/turtle", 100, ""},
		{"declared type with params", "whatever.bin", "text/turtle; charset=utf-8", 100, ""},
		{"generic type with good extension", "onto.ttl", "application/octet-stream", 100, ""},
		{"generic type with bad extension", "onto.docx", "text/plain", 100, ReasonUnsupportedType},
		{"wrong type", "onto.ttl", "image/png", 100, ReasonUnsupportedType},
		{"oversized", "onto.ttl", "", MaxUploadBytes + 1, ReasonOversized},
		{"exactly at limit", "onto.ttl", "", MaxUploadBytes, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.contentType, tt.size)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("expected acceptance, got %v", err)
				}
				return
			}
			var uerr *UploadError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected *UploadError, got %v", err)
			}
			if uerr.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", uerr.Reason, tt.wantReason)
			}
		})
	}
}

func TestReadAllEnforcesCap(t *testing.T) {
	small := strings.NewReader("small content")
	data, err := ReadAll(small)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "small content" {
		t.Errorf("content mangled: %q", data)
	}

	big := strings.NewReader(strings.Repeat("x", MaxUploadBytes+1))
	_, err = ReadAll(big)
	var uerr *UploadError
	if !errors.As(err, &uerr) || uerr.Reason != ReasonOversized {
		t.Errorf("expected oversized rejection, got %v", err)
	}
}

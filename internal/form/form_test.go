package form

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"testing"
)

// pngHeader is the 8-byte PNG signature plus enough padding for content
// sniffing to classify it.
var pngHeader = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 16)...)

var jpegHeader = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 16)...)

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantSuffix string
		wantMime   string
		wantErr    error
	}{
		{
			name:       "png payload",
			uri:        "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader),
			wantSuffix: ".png",
			wantMime:   "image/png",
		},
		{
			name:       "jpeg payload",
			uri:        "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegHeader),
			wantSuffix: ".jpg",
			wantMime:   "image/jpeg",
		},
		{
			name:       "declared media type is ignored in favor of sniffing",
			uri:        "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(pngHeader),
			wantSuffix: ".png",
			wantMime:   "image/png",
		},
		{
			name:    "empty uri",
			uri:     "",
			wantErr: ErrNoImageUploaded,
		},
		{
			name:    "missing data prefix",
			uri:     "image/png;base64,AAAA",
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "missing comma",
			uri:     "data:image/png;base64",
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "not base64 encoded",
			uri:     "data:image/png,rawbytes",
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "invalid base64 payload",
			uri:     "data:image/png;base64,!!!",
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "payload is not an image",
			uri:     "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")),
			wantErr: ErrUnsupportedMimeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := DecodeDataURI(tt.uri)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if file.Suffix != tt.wantSuffix {
				t.Errorf("Suffix = %q, want %q", file.Suffix, tt.wantSuffix)
			}
			if file.MimeType != tt.wantMime {
				t.Errorf("MimeType = %q, want %q", file.MimeType, tt.wantMime)
			}
			if file.Size != int64(len(file.Data)) {
				t.Errorf("Size = %d, want %d", file.Size, len(file.Data))
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	file, err := ReadFile(io.NopCloser(bytes.NewReader(pngHeader)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", file.MimeType)
	}

	if _, err := ReadFile(io.NopCloser(bytes.NewReader([]byte("just text")))); !errors.Is(err, ErrUnsupportedMimeType) {
		t.Errorf("expected ErrUnsupportedMimeType, got %v", err)
	}
}

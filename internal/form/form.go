// Package form reads uploaded images, both multipart files and the
// base64 data-URI form the JSON API accepts.
package form

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	magicNumberSeek = 512
)

// allowedImageTypes lists the simple MIME types we accept.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var mimeTypeSuffix = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrNoImageUploaded     = errors.New("image not uploaded")
	ErrInvalidDataURI      = errors.New("invalid data uri")
)

type File struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

func newFile(data []byte) (*File, error) {
	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	return &File{
		Size:     int64(len(data)),
		MimeType: contentType,
		Suffix:   mimeTypeSuffix[contentType],
		Data:     data,
	}, nil
}

func ReadFile(file io.ReadCloser) (*File, error) {
	data, err := io.ReadAll(file)
	defer func() { _ = file.Close() }()
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return newFile(data)
}

// DecodeDataURI decodes an image supplied inline as
// "data:image/png;base64,...". The declared media type is advisory; the
// decoded bytes are sniffed the same way as a multipart upload.
func DecodeDataURI(uri string) (*File, error) {
	if uri == "" {
		return nil, ErrNoImageUploaded
	}

	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: only base64 payloads are accepted", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}
	return newFile(data)
}

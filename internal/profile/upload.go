// AngelaMos | 2026
// upload.go

package profile

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/gabriel-vasile/mimetype"
)

const MaxAvatarSize = 5 << 20

var allowedAvatarTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// Upload is a validated avatar image.
type Upload struct {
	Filename    string
	ContentType string
	Size        int
}

// readAvatar streams the multipart body and validates the first file part.
// Clients send it as the "file" field, but any field name is accepted. The
// declared content type is trusted unless it is missing or generic, in which
// case the bytes are sniffed.
func readAvatar(w http.ResponseWriter, r *http.Request) (*Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxAvatarSize+1<<20)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, ErrNoFile
	}

	part, err := firstFilePart(mr)
	if err != nil {
		return nil, err
	}
	defer part.Close() //nolint:errcheck // read-only part

	data, err := io.ReadAll(io.LimitReader(part, MaxAvatarSize+1))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if len(data) > MaxAvatarSize {
		return nil, ErrFileTooLarge
	}

	contentType := declaredType(part.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = declaredType(mimetype.Detect(data).String())
	}
	if !slices.Contains(allowedAvatarTypes, contentType) {
		return nil, ErrInvalidFileType
	}

	return &Upload{
		Filename:    part.FileName(),
		ContentType: contentType,
		Size:        len(data),
	}, nil
}

func firstFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return nil, ErrFileTooLarge
			}
			return nil, ErrNoFile
		}
		if part.FileName() != "" {
			return part, nil
		}
	}
	return nil, ErrNoFile
}

func declaredType(raw string) string {
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return ""
	}
	return mediaType
}

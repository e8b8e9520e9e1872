// Package storage keeps employee profile pictures outside the database.
// Stored pictures are addressed by a reference of the form "/uploads/<key>".
package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/google/uuid"
)

// PictureField is the multipart field carrying the upload.
const PictureField = "profilePicture"

var allowedExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Picture is an uploaded image awaiting storage.
type Picture struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PictureStore saves and removes pictures. Save returns the reference to
// persist on the employee; Delete ignores references it does not own.
type PictureStore interface {
	Save(ctx context.Context, p *Picture) (string, error)
	Delete(ctx context.Context, ref string) error
}

// CheckPicture returns a validation error when p is not an accepted image
// type or exceeds maxSize bytes.
func CheckPicture(p *Picture, maxSize int64) error {
	ve := &common.ValidationError{}

	ext := strings.ToLower(filepath.Ext(p.Filename))
	_, extOK := allowedExt[ext]
	ct := strings.ToLower(p.ContentType)
	if !extOK || (ct != "" && !strings.HasPrefix(ct, "image/")) {
		ve.Add(PictureField, "Only image files are allowed")
	}
	if maxSize > 0 && p.Size > maxSize {
		ve.Add(PictureField, "File is too large")
	}

	return ve.Err()
}

// newKey returns a fresh object name that keeps the upload's extension.
func newKey(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// keyFromRef extracts the object name from a reference, or "" when ref is
// not a picture reference.
func keyFromRef(ref string) string {
	if !strings.HasPrefix(ref, common.UploadsPrefix) {
		return ""
	}
	key := path.Base(strings.TrimPrefix(ref, common.UploadsPrefix))
	if key == "." || key == "/" || key == ".." {
		return ""
	}
	return key
}

func contentTypeFor(p *Picture) string {
	if p.ContentType != "" {
		return p.ContentType
	}
	return allowedExt[strings.ToLower(filepath.Ext(p.Filename))]
}

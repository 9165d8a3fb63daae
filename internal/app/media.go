package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"tourism_booking/internal/domain"
)

// DefaultMaxUpload is 10 MiB.
const DefaultMaxUpload int64 = 10 << 20

// allowedImageTypes maps accepted MIME types to the extension used for generated names.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ValidateUpload rejects empty or oversize files and anything but JPEG, PNG or WebP.
func ValidateUpload(size, max int64, contentType string) error {
	if size <= 0 {
		return domain.Invalid("file", "empty file")
	}
	if size > max {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", domain.ErrFileTooLarge, size, max)
	}
	if _, ok := allowedImageTypes[mediaType(contentType)]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedType, contentType)
	}
	return nil
}

func mediaType(ct string) string {
	return strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
}

// StoragePath turns a public object URL or a bare path into the
// bucket-relative path.
func StoragePath(pathOrURL, bucket string) string {
	s := strings.TrimSpace(pathOrURL)
	if !strings.Contains(s, "://") {
		if i := strings.IndexAny(s, "?#"); i >= 0 {
			s = s[:i]
		}
		return strings.TrimLeft(s, "/")
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	p := u.Path
	for _, marker := range []string{"/object/public/" + bucket + "/", "/" + bucket + "/"} {
		if i := strings.Index(p, marker); i >= 0 {
			return p[i+len(marker):]
		}
	}
	// virtual-hosted style: the whole path is the key
	return strings.TrimLeft(p, "/")
}

type UploadResult struct {
	Success bool   `json:"success"`
	Bucket  string `json:"bucket"`
	Path    string `json:"path"`
	URL     string `json:"url"`
}

type MediaService struct {
	store    domain.ObjectStore
	bucket   string
	maxBytes int64
}

func NewMediaService(store domain.ObjectStore, defaultBucket string, maxBytes int64) *MediaService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUpload
	}
	return &MediaService{store: store, bucket: defaultBucket, maxBytes: maxBytes}
}

func (s *MediaService) MaxBytes() int64 { return s.maxBytes }

func (s *MediaService) PublicURL(bucket, p string) string {
	return s.store.PublicURL(s.bucketOr(bucket), p)
}

func (s *MediaService) bucketOr(b string) string {
	if b = strings.TrimSpace(b); b != "" {
		return b
	}
	return s.bucket
}

// Upload validates before touching the backend. name defaults to {uuid}.{ext}.
func (s *MediaService) Upload(ctx context.Context, bucket, name, contentType string, body io.Reader, size int64) (UploadResult, error) {
	if err := ValidateUpload(size, s.maxBytes, contentType); err != nil {
		return UploadResult{}, err
	}
	bucket = s.bucketOr(bucket)
	objPath, err := objectName(name, allowedImageTypes[mediaType(contentType)])
	if err != nil {
		return UploadResult{}, err
	}
	if err := s.store.Upload(ctx, bucket, objPath, mediaType(contentType), body, size); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{Success: true, Bucket: bucket, Path: objPath, URL: s.store.PublicURL(bucket, objPath)}, nil
}

func objectName(name, ext string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.NewString() + "." + ext, nil
	}
	clean := path.Clean("/" + name)[1:]
	if clean == "" || clean != strings.TrimLeft(name, "/") || strings.Contains(clean, "..") {
		return "", domain.Invalid("name", "must be a relative object path")
	}
	if path.Ext(clean) == "" {
		clean += "." + ext
	}
	return clean, nil
}

// Delete accepts either a public URL or a bucket-relative path.
func (s *MediaService) Delete(ctx context.Context, pathOrURL, bucket string) error {
	bucket = s.bucketOr(bucket)
	p := StoragePath(pathOrURL, bucket)
	if p == "" {
		return domain.Invalid("path", "required")
	}
	return s.store.Delete(ctx, bucket, p)
}

// DeleteAll removes several objects of one bucket in a single backend call.
func (s *MediaService) DeleteAll(ctx context.Context, bucket string, refs []string) error {
	bucket = s.bucketOr(bucket)
	paths := make([]string, 0, len(refs))
	for _, r := range refs {
		if p := StoragePath(r, bucket); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil
	}
	return s.store.Delete(ctx, bucket, paths...)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Disk is a Bucket on the local filesystem, served by the HTTP layer under
// baseURL.
type Disk struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

func NewDisk(root, baseURL string, logger *zap.Logger) (*Disk, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Disk{root: abs, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}, nil
}

// Root is the directory objects are written under.
func (d *Disk) Root() string { return d.root }

// Upload sniffs the content, rejects anything that is not a supported image,
// and stores it as <folder>/<uuid><ext>. filename is only logged; the
// extension always follows the detected type.
func (d *Disk) Upload(ctx context.Context, folder, filename string, r io.Reader) (Object, error) {
	if !knownFolder(folder) {
		return Object{}, fmt.Errorf("%w: %q", ErrUnknownFolder, folder)
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Object{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return Object{}, ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	mt := mimetype.Detect(data)
	ext, ok := allowedTypes[mt.String()]
	if !ok {
		d.logger.Warn("storage: rejected upload", zap.String("filename", filename), zap.String("mime", mt.String()))
		return Object{}, ErrUnsupportedType
	}

	key := path.Join(folder, uuid.NewString()+ext)
	full := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("create folder: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("write object: %w", err)
	}

	d.logger.Info("storage: stored object", zap.String("key", key), zap.Int("bytes", len(data)))
	return Object{Key: key, URL: d.PublicURL(key), ContentType: mt.String(), Size: int64(len(data))}, nil
}

// Delete removes the object. A missing object is not an error.
func (d *Disk) Delete(_ context.Context, key string) error {
	full, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (d *Disk) PublicURL(key string) string {
	return d.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (d *Disk) KeyFromURL(url string) (string, bool) {
	prefix := d.baseURL + "/"
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(url, prefix)), "/")
	if _, err := d.resolve(key); err != nil {
		return "", false
	}
	return key, true
}

// resolve maps key to a path inside root, refusing anything that escapes it.
func (d *Disk) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	full := filepath.Join(d.root, filepath.FromSlash(clean))
	rel, err := filepath.Rel(d.root, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return full, nil
}

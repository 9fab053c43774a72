package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Folder groups every uploaded project image.
const Folder = "images"

// Uploader stores an image and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

var allowedExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true, ".avif": true,
}

// Ext returns the lowercase extension of filename, or an error when it is not an image type.
func Ext(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	return ext, nil
}

func objectName(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

//
// CLOUDINARY
//

type Cloudinary struct {
	cld *cloudinary.Cloudinary
	now func() time.Time
}

func NewCloudinary(url string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld, now: time.Now}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if _, err := Ext(filename); err != nil {
		return "", err
	}
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: objectName(c.now()),
		Folder:   Folder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

//
// LOCAL DISK
//

// Local writes uploads to a directory served under URLPrefix.
type Local struct {
	Dir       string
	URLPrefix string
	now       func() time.Time
}

func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/"), now: time.Now}, nil
}

func (l *Local) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext, err := Ext(filename)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := objectName(l.now()) + ext
	f, err := os.CreateTemp(l.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	tmp := f.Name()

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(l.Dir, name)); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("store upload: %w", err)
	}
	return l.URLPrefix + "/" + name, nil
}

package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/imagehost"
)

// Upload limits.  Icons and city images are small static assets; business
// photos may be camera shots.
const (
	maxIconBytes  = 2 << 20 // 2MB
	maxPhotoBytes = 5 << 20 // 5MB
	maxPhotos     = 10
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".svg":  true,
}

// validateImage checks extension allow-list and size ceiling before any
// bytes are relayed to the image host.
func validateImage(fh *multipart.FileHeader, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return fmt.Errorf("unsupported image type %q (jpg, jpeg, png, svg allowed)", ext)
	}
	if fh.Size > maxBytes {
		return fmt.Errorf("image %q exceeds the %dMB limit", fh.Filename, maxBytes>>20)
	}
	return nil
}

// relayImage validates and forwards one multipart file to the image host.
func relayImage(ctx context.Context, images *imagehost.Client, folder string, fh *multipart.FileHeader, maxBytes int64) (imagehost.UploadResult, error) {
	if err := validateImage(fh, maxBytes); err != nil {
		return imagehost.UploadResult{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return imagehost.UploadResult{}, err
	}
	defer f.Close()
	return images.Upload(ctx, folder, fh.Filename, f)
}

// formFile returns the named multipart file if present.  A missing file is
// not an error: image fields are optional on most routes.
func formFile(c echo.Context, name string) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return fh
}

// formPhotos returns the "photos" files of a multipart request, enforcing
// the per-request cap.
func formPhotos(c echo.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil // no multipart body, no photos
	}
	files := form.File["photos"]
	if len(files) > maxPhotos {
		return nil, fmt.Errorf("at most %d photos per request", maxPhotos)
	}
	return files, nil
}

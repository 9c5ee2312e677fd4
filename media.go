package pubcms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	thumbPrefix   = "thumb-"
	uploadsPath   = "/uploads/"
)

// imageInfo is what an upload learns about a decodable image.
type imageInfo struct {
	Width, Height int
	Thumbnail     []byte
}

// inspectImage reads the dimensions of data and, for images wider than
// maxImageWidth, produces a JPEG thumbnail scaled to that width.
// ok is false when data is not an image the registered decoders understand.
func inspectImage(data []byte) (info imageInfo, ok bool, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return imageInfo{}, false, nil
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	if cfg.Width <= maxImageWidth {
		return info, true, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return info, true, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	newH := bounds.Dy() * maxImageWidth / bounds.Dx()
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return info, true, fmt.Errorf("encode thumbnail: %w", err)
	}
	info.Thumbnail = buf.Bytes()
	return info, true, nil
}

// uniqueFilename returns name, or name with a -N counter before the
// extension, such that neither the upload directory nor the media table
// already holds it.
func (a *App) uniqueFilename(ctx context.Context, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	candidate := name
	for counter := 1; ; {
		_, statErr := os.Stat(filepath.Join(a.Config.UploadDir, candidate))
		taken, err := a.Store.MediaFilenameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if statErr != nil && !taken {
			return candidate, nil
		}
		counter++
		candidate = fmt.Sprintf("%s-%d%s", base, counter, ext)
	}
}

func (a *App) handleUploadMedia(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "No file provided")
	}
	if file.Size > maxUploadSize {
		return fail(c, http.StatusBadRequest, "File size exceeds 10MB limit")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadSize {
		return fail(c, http.StatusBadRequest, "File size exceeds 10MB limit")
	}

	ctx := c.Request().Context()
	original := filepath.Base(file.Filename)
	filename, err := a.uniqueFilename(ctx, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(original)))
	if err != nil {
		return err
	}

	path := filepath.Join(a.Config.UploadDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}

	m := Media{
		Filename:     filename,
		OriginalName: original,
		MimeType:     mimetype.Detect(data).String(),
		Size:         int64(len(data)),
		Path:         path,
		URL:          uploadsPath + filename,
		Alt:          strings.TrimSpace(c.FormValue("alt")),
		UploadedBy:   currentUser(c).ID,
	}

	if strings.HasPrefix(m.MimeType, "image/") {
		info, isImage, err := inspectImage(data)
		if err != nil {
			c.Logger().Warnf("thumbnail for %s: %v", filename, err)
		}
		if isImage {
			m.Width, m.Height = info.Width, info.Height
		}
		if len(info.Thumbnail) > 0 {
			thumb := thumbPrefix + strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
			if err := os.WriteFile(filepath.Join(a.Config.UploadDir, thumb), info.Thumbnail, 0o644); err != nil {
				c.Logger().Warnf("write thumbnail %s: %v", thumb, err)
			} else {
				m.ThumbnailURL = uploadsPath + thumb
			}
		}
	}

	m, err = a.Store.CreateMedia(ctx, m)
	if err != nil {
		a.removeUpload(c, path)
		return err
	}
	return created(c, m)
}

func (a *App) handleListMedia(c echo.Context) error {
	f := MediaFilter{
		MimeType:   c.QueryParam("mimeType"),
		UploadedBy: c.QueryParam("uploadedBy"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	}
	list, total, err := a.Store.ListMedia(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return paged(c, list, newPagination(f.Page, f.Limit, total, defaultMediaLimit))
}

func (a *App) handleGetMedia(c echo.Context) error {
	m, err := a.Store.GetMedia(c.Request().Context(), c.Param("id"))
	if err != nil {
		return contentError(c, err, "Media")
	}
	return ok(c, m)
}

// handleDeleteMedia removes the files first and the row second. A file that
// cannot be removed is logged and does not keep the row alive.
func (a *App) handleDeleteMedia(c echo.Context) error {
	ctx := c.Request().Context()
	m, err := a.Store.GetMedia(ctx, c.Param("id"))
	if err != nil {
		return contentError(c, err, "Media")
	}

	a.removeUpload(c, m.Path)
	if m.ThumbnailURL != "" {
		a.removeUpload(c, filepath.Join(a.Config.UploadDir, strings.TrimPrefix(m.ThumbnailURL, uploadsPath)))
	}

	if err := a.Store.DeleteMedia(ctx, m.ID); err != nil {
		return contentError(c, err, "Media")
	}
	return ok(c, map[string]string{"message": "Media deleted successfully"})
}

func (a *App) removeUpload(c echo.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.Logger().Errorf("remove %s: %v", path, err)
	}
}

package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"yatube/internal/config"
	"yatube/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageUploadDir       = "media"
	DefaultImageMaxUploadSizeMB = 5
	// MaxImageSide bounds both dimensions of a stored post image.
	MaxImageSide = 1080
	// MaxImagePixels caps width*height before decoding.
	MaxImagePixels = 40_000_000
	JPEGQuality  = 82
	WebPQuality  = 70
	// imageSubdir is relative to the upload dir and is what Post.Image stores.
	imageSubdir = "posts"
)

type UploadImageInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// SavedImage is a stored upload. Created is false when identical content was already on disk.
type SavedImage struct {
	Path    string
	Created bool
}

// ImageStore persists uploaded images under the media root.
type ImageStore interface {
	Save(ctx context.Context, in UploadImageInput) (SavedImage, error)
	// Remove deletes the image at path and its variants.
	Remove(ctx context.Context, path string) error
}

type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.ImageUploadDir != "" {
			uploadDir = cfg.ImageUploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// UploadDir is the media root served under /media.
func (s *ImageService) UploadDir() string {
	return s.uploadDir
}

// Save validates, downsizes and stores the image as posts/<sha256>.jpg with a .webp sibling.
func (s *ImageService) Save(_ context.Context, in UploadImageInput) (SavedImage, error) {
	if len(in.Content) == 0 {
		return SavedImage{}, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return SavedImage{}, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	if !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return SavedImage{}, models.NewValidationError("Invalid image type")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(in.Content))
	if err != nil {
		return SavedImage{}, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return SavedImage{}, models.NewValidationError("Unsupported image format")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return SavedImage{}, models.NewValidationError(fmt.Sprintf("Image dimensions too large (max %d megapixels)", MaxImagePixels/1_000_000))
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return SavedImage{}, models.NewValidationError("Invalid image file")
	}

	master := resizeToFit(decoded, MaxImageSide, MaxImageSide)

	jpg, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return SavedImage{}, models.NewInternalError(err)
	}
	wp, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return SavedImage{}, models.NewInternalError(err)
	}

	sum := sha256.Sum256(jpg)
	hash := hex.EncodeToString(sum[:])
	jpgRel := filepath.ToSlash(filepath.Join(imageSubdir, hash+".jpg"))
	webpRel := filepath.ToSlash(filepath.Join(imageSubdir, hash+".webp"))

	created, err := writeFileOnce(filepath.Join(s.uploadDir, jpgRel), jpg)
	if err != nil {
		return SavedImage{}, models.NewInternalError(err)
	}
	if _, err := writeFileOnce(filepath.Join(s.uploadDir, webpRel), wp); err != nil {
		if created {
			_ = os.Remove(filepath.Join(s.uploadDir, jpgRel))
		}
		return SavedImage{}, models.NewInternalError(err)
	}

	return SavedImage{Path: jpgRel, Created: created}, nil
}

// Remove deletes a stored JPEG and its WebP sibling. Missing files are ignored.
func (s *ImageService) Remove(_ context.Context, path string) error {
	clean := filepath.Clean(filepath.FromSlash(path))
	if !strings.HasPrefix(clean, imageSubdir+string(filepath.Separator)) || strings.Contains(clean, "..") {
		return fmt.Errorf("refusing to remove %q outside %s/", path, imageSubdir)
	}
	abs := filepath.Join(s.uploadDir, clean)
	for _, p := range []string{abs, strings.TrimSuffix(abs, filepath.Ext(abs)) + ".webp"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	ct, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(ct)) {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

// writeFileOnce writes through a uniquely named temp file so readers never see a partial image,
// then links it into place. It reports false when path already existed.
func writeFileOnce(path string, data []byte) (bool, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, err
	}
	tmp := filepath.Join(dir, ".upload-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return false, err
	}
	defer func() { _ = os.Remove(tmp) }()

	if err := os.Link(tmp, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

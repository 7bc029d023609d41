package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"strings"

	"alley/internal/config"
	"alley/internal/featureflags"
	"alley/internal/middleware"
	"alley/internal/models"
	"alley/internal/observability"
	"alley/internal/storage"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

const (
	DefaultImageMaxUploadSizeMB = 10
	ThumbnailSize               = 400
	AvatarSize                  = 100
	MaxImageDimension           = 4096
	JPEGQuality                 = 90
	WebPQuality                 = 75
)

// Object key directories. They double as the static route prefixes.
const (
	ThumbnailDir = "thumbnails"
	ImageDir     = "images"
	AvatarDir    = "avatars"
)

var (
	ErrMissingFile  = models.NewValidationError("Missing file.")
	ErrUploadFailed = models.NewValidationError("File upload failed.")
)

// ImageUpload is one multipart file as received by a handler.
type ImageUpload struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// StoredImage is an object written to the store.
type StoredImage struct {
	Key string
	URL string
}

// ArtworkImages are the two variants stored for an artwork upload.
type ArtworkImages struct {
	Thumbnail StoredImage
	Full      StoredImage
}

// Keys lists the object keys so callers can discard them on failure.
func (a *ArtworkImages) Keys() []string {
	return []string{a.Thumbnail.Key, a.Full.Key}
}

type ImageService struct {
	store              storage.Store
	flags              *featureflags.Flags
	maxUploadSizeBytes int64
}

func NewImageService(store storage.Store, flags *featureflags.Flags, cfg *config.Config) *ImageService {
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB
	if cfg != nil && cfg.ImageMaxUploadSizeMB > 0 {
		maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
	}
	return &ImageService{
		store:              store,
		flags:              flags,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// ProcessArtwork stores a 400x400 cover-cropped thumbnail and a full size
// re-encode of the upload under a shared random token.
func (s *ImageService) ProcessArtwork(ctx context.Context, in ImageUpload) (*ArtworkImages, error) {
	src, format, err := s.decode(in)
	if err != nil {
		return nil, err
	}
	token := uuid.NewString()

	done := observability.ObserveImageProcessing("thumbnail")
	thumbFormat := format
	if s.flags.Enabled(featureflags.WebPThumbnails, in.UserID) {
		thumbFormat = "webp"
	}
	thumbBytes, err := encodeImage(coverCrop(src, ThumbnailSize, ThumbnailSize), thumbFormat)
	done()
	if err != nil {
		return nil, ErrUploadFailed
	}

	done = observability.ObserveImageProcessing("full")
	fullBytes, err := encodeImage(resizeToFit(src, MaxImageDimension, MaxImageDimension), format)
	done()
	if err != nil {
		return nil, ErrUploadFailed
	}

	thumb, err := s.put(ctx, ThumbnailDir, "thumbnail", token, thumbFormat, thumbBytes)
	if err != nil {
		return nil, err
	}
	full, err := s.put(ctx, ImageDir, "image", token, format, fullBytes)
	if err != nil {
		s.Discard(ctx, thumb.Key)
		return nil, err
	}
	return &ArtworkImages{Thumbnail: *thumb, Full: *full}, nil
}

// ProcessAvatar stores a 100x100 cover-cropped avatar.
func (s *ImageService) ProcessAvatar(ctx context.Context, in ImageUpload) (*StoredImage, error) {
	src, format, err := s.decode(in)
	if err != nil {
		return nil, err
	}

	done := observability.ObserveImageProcessing("avatar")
	if s.flags.Enabled(featureflags.WebPAvatars, in.UserID) {
		format = "webp"
	}
	data, err := encodeImage(coverCrop(src, AvatarSize, AvatarSize), format)
	done()
	if err != nil {
		return nil, ErrUploadFailed
	}
	return s.put(ctx, AvatarDir, "avatar", uuid.NewString(), format, data)
}

// Discard deletes stored objects, logging failures.
func (s *ImageService) Discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete stored image", "key", key, "error", err)
		}
	}
}

// KeyFromURL recovers the object key from a public URL written by this
// service. It returns "" for URLs it did not produce.
func KeyFromURL(url string) string {
	for _, dir := range []string{ThumbnailDir, ImageDir, AvatarDir} {
		if i := strings.LastIndex(url, "/"+dir+"/"); i >= 0 {
			return url[i+1:]
		}
	}
	return ""
}

// decode applies the transport filter (jpeg and png only, anything else is
// treated as no file) and decodes the image.
func (s *ImageService) decode(in ImageUpload) (image.Image, string, error) {
	if len(in.Content) == 0 {
		return nil, "", ErrMissingFile
	}
	declared := normalizeContentType(in.ContentType)
	if declared == "" || declared == "application/octet-stream" {
		declared = normalizeContentType(http.DetectContentType(in.Content))
	}
	if !isAllowedImageMIME(declared) {
		return nil, "", ErrMissingFile
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	src, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, "", ErrUploadFailed
	}
	switch format {
	case "jpeg", "png":
		return src, format, nil
	default:
		return nil, "", ErrUploadFailed
	}
}

func (s *ImageService) put(ctx context.Context, dir, prefix, token, format string, data []byte) (*StoredImage, error) {
	key := fmt.Sprintf("%s/%s-%s.%s", dir, prefix, token, extensionFor(format))
	url, err := s.store.Put(ctx, key, contentTypeFor(format), data)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to store image", "key", key, "error", err)
		return nil, ErrUploadFailed
	}
	return &StoredImage{Key: key, URL: url}, nil
}

// coverCrop scales src to exactly w x h, cropping the centered overflow.
func coverCrop(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw <= 0 || sh <= 0 {
		return src
	}

	cw, ch := sw, sw*h/w
	if ch > sh {
		ch = sh
		cw = sh * w / h
	}
	cw, ch = max(cw, 1), max(ch, 1)
	x := b.Min.X + (sw-cw)/2
	y := b.Min.Y + (sh-ch)/2

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, image.Rect(x, y, x+cw, y+ch), xdraw.Src, nil)
	return dst
}

// resizeToFit downscales src to fit within maxWidth x maxHeight, keeping
// its aspect ratio. Smaller images are returned as is.
func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeImage(img image.Image, format string) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: JPEGQuality})
	case "png":
		err = png.Encode(buf, img)
	case "webp":
		err = webp.Encode(buf, img, &webp.Options{Quality: WebPQuality})
	default:
		err = fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func extensionFor(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

func contentTypeFor(format string) string {
	return "image/" + format
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

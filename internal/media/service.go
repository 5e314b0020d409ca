package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"github.com/magvolt/sitecms/internal/logging"
	"github.com/magvolt/sitecms/pkg/interfaces"
)

// Service owns the upload pipeline for site imagery. Payloads are decoded,
// downscaled to a bounded width, re-encoded as JPEG and written to object
// storage; the persisted representation handed back to callers is a signed
// read URL.
type Service interface {
	Upload(ctx context.Context, req UploadRequest) (*Asset, error)
	Replace(ctx context.Context, oldURL string, req UploadRequest) (*Asset, error)
	Remove(ctx context.Context, url string) error
	StoredPaths(ctx context.Context) ([]string, error)
}

// UploadRequest carries one incoming image payload.
type UploadRequest struct {
	Name    string
	Payload io.Reader
}

// Asset describes a stored image.
type Asset struct {
	Path      string
	URL       string
	ExpiresAt time.Time
	Width     int
	Height    int
}

var (
	ErrPayloadRequired = errors.New("media: payload is required")
	ErrNotAnImage      = errors.New("media: payload is not a supported image")
)

// ServiceOption configures the media service.
type ServiceOption func(*service)

// WithClock overrides the clock used to build object paths.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithMaxWidth bounds the stored image width in pixels.
func WithMaxWidth(width int) ServiceOption {
	return func(s *service) {
		if width > 0 {
			s.maxWidth = width
		}
	}
}

// WithJPEGQuality sets the re-encode quality.
func WithJPEGQuality(quality int) ServiceOption {
	return func(s *service) {
		if quality > 0 && quality <= 100 {
			s.quality = quality
		}
	}
}

// WithPathPrefix sets the folder objects are stored under.
func WithPathPrefix(prefix string) ServiceOption {
	return func(s *service) {
		s.prefix = strings.Trim(prefix, "/")
	}
}

// WithSignedURLTTL sets the expiry requested for minted URLs.
func WithSignedURLTTL(ttl time.Duration) ServiceOption {
	return func(s *service) {
		if ttl > 0 {
			s.urlTTL = ttl
		}
	}
}

// WithLogger attaches the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	storage  interfaces.ObjectStorage
	prefix   string
	maxWidth int
	quality  int
	urlTTL   time.Duration
	now      func() time.Time
	logger   interfaces.Logger
}

// NewService constructs the media pipeline over the supplied object storage.
func NewService(storage interfaces.ObjectStorage, opts ...ServiceOption) Service {
	s := &service{
		storage:  storage,
		prefix:   "green-energy",
		maxWidth: 1200,
		quality:  80,
		now:      time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (*Asset, error) {
	if req.Payload == nil {
		return nil, ErrPayloadRequired
	}

	src, _, err := image.Decode(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	resized := s.downscale(src)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("media: encode: %w", err)
	}

	objectPath := s.objectPath(req.Name)
	if err := s.storage.Write(ctx, objectPath, "image/jpeg", &buf); err != nil {
		return nil, fmt.Errorf("media: store %s: %w", objectPath, err)
	}

	signed, err := s.storage.SignedURL(objectPath, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("media: sign %s: %w", objectPath, err)
	}

	bounds := resized.Bounds()
	s.logger.Info("image stored", "path", objectPath, "width", bounds.Dx(), "height", bounds.Dy())
	return &Asset{
		Path:      objectPath,
		URL:       signed.URL,
		ExpiresAt: signed.ExpiresAt,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

// Replace uploads the new payload first, then removes the previous object.
// The old delete is best effort: an orphaned object is acceptable, losing
// the new upload is not.
func (s *service) Replace(ctx context.Context, oldURL string, req UploadRequest) (*Asset, error) {
	asset, err := s.Upload(ctx, req)
	if err != nil {
		return nil, err
	}
	if oldURL != "" {
		if err := s.Remove(ctx, oldURL); err != nil {
			s.logger.Warn("old image not removed during replace", "url", oldURL, "error", err)
		}
	}
	return asset, nil
}

// Remove deletes the object a signed URL points at. URLs that do not belong
// to the store are ignored.
func (s *service) Remove(ctx context.Context, url string) error {
	objectPath, ok := s.storage.ObjectPath(url)
	if !ok {
		s.logger.Debug("skipping delete for foreign url", "url", url)
		return nil
	}
	return s.storage.Delete(ctx, objectPath)
}

// StoredPaths lists every object under the service prefix.
func (s *service) StoredPaths(ctx context.Context) ([]string, error) {
	return s.storage.List(ctx, s.prefix)
}

func (s *service) downscale(src image.Image) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= s.maxWidth {
		return src
	}
	height := bounds.Dy() * s.maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func (s *service) objectPath(name string) string {
	base := sanitizeName(name)
	stamp := s.now().UnixMilli()
	if s.prefix == "" {
		return fmt.Sprintf("%d_%s", stamp, base)
	}
	return fmt.Sprintf("%s/%d_%s", s.prefix, stamp, base)
}

func sanitizeName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "-")
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		cleaned = "upload.jpg"
	}
	return cleaned
}

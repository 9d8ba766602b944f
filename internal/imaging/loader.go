package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrUnsupportedFormat is returned when no registered decoder recognizes the bytes.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrCorruptData is returned when the format was recognized but decoding failed.
	ErrCorruptData = errors.New("corrupt image data")
)

// Raster is a decoded image held as a non-premultiplied 8-bit RGBA grid.
//
// The grid always starts at (0,0), regardless of the bounds reported by the
// source decoder. A Raster is never modified after construction.
type Raster struct {
	img *image.NRGBA
}

// NewRaster copies img into a Raster.
func NewRaster(img image.Image) *Raster {
	return &Raster{img: imaging.Clone(img)}
}

// Width returns the image width in pixels.
func (r *Raster) Width() int { return r.img.Rect.Dx() }

// Height returns the image height in pixels.
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Contains reports whether p addresses a pixel of the image.
func (r *Raster) Contains(p Point) bool {
	return p.X >= 0 && p.X < r.Width() && p.Y >= 0 && p.Y < r.Height()
}

// Image exposes the underlying pixels. Callers must not modify them.
func (r *Raster) Image() image.Image { return r.img }

// pixel returns the channels at (x, y). The caller has checked the bounds.
func (r *Raster) pixel(x, y int) (RGBColor, uint8) {
	i := r.img.PixOffset(x+r.img.Rect.Min.X, y+r.img.Rect.Min.Y)
	p := r.img.Pix[i : i+4 : i+4]
	return RGBColor{R: p[0], G: p[1], B: p[2]}, p[3]
}

// Decode turns raw image bytes into a Raster.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. EXIF orientation
// is not applied, so pixel coordinates match the stored pixel order.
//
// # Errors
//
//   - ErrUnsupportedFormat if the bytes are not in any supported format
//   - ErrCorruptData if the input is empty or the decoder fails
func Decode(data []byte) (*Raster, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrCorruptData)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	return NewRaster(img), nil
}

// LoadFile reads and decodes the image at path.
func LoadFile(path string) (*Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return r, nil
}

// ImageCache provides thread-safe caching of decoded images to avoid
// redundant disk reads and decoding.
//
// The cache stores Rasters keyed by their file path. Once an image is loaded,
// subsequent Load() calls for the same path return the cached copy. Because a
// Raster is immutable, the cached value can be handed to concurrent requests
// without copying.
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). Replacing a file on disk does not invalidate its entry.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*Raster
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*Raster),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// The image is cached using the exact path string provided. Different paths to
// the same file (e.g., relative vs absolute) result in separate cache entries.
// Failed loads are not cached.
func (c *ImageCache) Load(path string) (*Raster, error) {
	c.mu.RLock()
	if r, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	r, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = r
	c.mu.Unlock()

	return r, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*Raster)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register webp decoder
)

// Config for image processing
type Config struct {
	MaxWidth  int // Max width for stored photos (default 2000)
	MaxHeight int // Max height for stored photos (default 2000)
	Quality   int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		MaxWidth:  2000,
		MaxHeight: 2000,
		Quality:   85,
	}
}

// Processor handles image processing
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = 85
	}
	return &Processor{config: config}
}

// Result is a re-encoded JPEG
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// ToJPEG decodes any supported image (jpeg, png, gif, webp, bmp, tiff),
// applies EXIF orientation, shrinks it to fit the configured box and
// re-encodes it as JPEG.
func (p *Processor) ToJPEG(data []byte) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if p.config.MaxWidth > 0 && p.config.MaxHeight > 0 {
		b := img.Bounds()
		if b.Dx() > p.config.MaxWidth || b.Dy() > p.config.MaxHeight {
			img = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.config.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return &Result{
		Data:   buf.Bytes(),
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// Dimensions returns width and height without re-encoding
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

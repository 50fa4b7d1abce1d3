package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"time"

	_ "image/gif" // decoder registration
	_ "image/png" // decoder registration

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	saavnhttp "saavnbot/internal/http"
)

const (
	// fetchTimeout bounds the artwork download. Artwork is optional and
	// must never stall the pipeline behind a slow image host.
	fetchTimeout = 15 * time.Second

	// maxDimension is the largest edge of an embedded cover.
	maxDimension = 500

	jpegQuality = 90
)

// Processor fetches cover art and normalizes it for ID3 embedding.
//
// Every cover leaves Process as a baseline JPEG no larger than 500px on
// its longest edge. Transparent and palette-based images are flattened
// onto a white background first, so players that ignore alpha do not
// render black boxes. Images already within bounds are never upscaled.
//
// Example:
//
//	proc := artwork.NewProcessor(httpClient, logger)
//	cover, err := proc.Process(ctx, detail.BestImageURL())
//	if err != nil {
//	    cover = nil // deliver without artwork
//	}
type Processor struct {
	http *saavnhttp.Client
	log  *zap.SugaredLogger
}

// NewProcessor creates a Processor using the shared HTTP client.
func NewProcessor(httpClient *saavnhttp.Client, log *zap.SugaredLogger) *Processor {
	return &Processor{http: httpClient, log: log}
}

// Process downloads the image at url and returns it as JPEG bytes ready
// for embedding.
//
// Fetch and decode failures are returned as errors; callers treat them as
// "no artwork", not as pipeline failures.
func (p *Processor) Process(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	data, err := p.http.Get(ctx, url)
	if err != nil {
		p.log.Warnw("artwork fetch failed", "url", url, "error", err)
		return nil, fmt.Errorf("fetch artwork: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		p.log.Warnw("artwork decode failed", "url", url, "format", format, "error", err)
		return nil, fmt.Errorf("decode artwork: %w", err)
	}

	img = flatten(img)
	img = downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode artwork: %w", err)
	}
	return buf.Bytes(), nil
}

// flatten composites images with transparency or a palette onto a white
// background. Fully opaque truecolor images pass through untouched.
func flatten(img image.Image) image.Image {
	_, paletted := img.(*image.Paletted)
	opaque := true
	if o, ok := img.(interface{ Opaque() bool }); ok {
		opaque = o.Opaque()
	}
	if opaque && !paletted {
		return img
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

// downscale resizes img so its longest edge is at most maxDimension,
// preserving aspect ratio. Smaller images are returned as-is.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxDimension && height <= maxDimension {
		return img
	}

	ratio := float64(width) / float64(height)
	if width >= height {
		width = maxDimension
		height = int(float64(maxDimension) / ratio)
	} else {
		height = maxDimension
		width = int(float64(maxDimension) * ratio)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// Package fetcher downloads georeferenced rasters from a map-tile export
// endpoint and decodes them into pixel grids with the originating bounding
// box attached.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/geoplot/tileframe/pkg/geo"
)

// Format identifies the image encoding requested from the export endpoint
type Format string

// FormatPNG is the only supported encoding
const FormatPNG Format = "png"

// DefaultEndpoint is the OpenStreetMap legacy export endpoint
const DefaultEndpoint = "https://render.openstreetmap.org/cgi-bin/export"

// DefaultTimeout bounds a single fetch; the original design had no timeout,
// this is a hardening addition
const DefaultTimeout = 30 * time.Second

// Config carries the endpoint and HTTP settings for a Fetcher. Credentials
// or registration headers go in Headers rather than ambient process state.
type Config struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
}

// Options configures a single fetch
type Options struct {
	Format Format
	Gray   bool
	// SavePath, when set, writes the response bytes to this path before
	// decoding. No cleanup is attempted if decoding then fails.
	SavePath string
}

// Fetcher performs single-shot raster fetches. Safe for concurrent use as
// the underlying http.Client is.
type Fetcher struct {
	client *http.Client
	cfg    Config
}

// New creates a Fetcher, filling in endpoint and timeout defaults.
func New(cfg Config) *Fetcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "tileframe/1.0.0"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg: cfg,
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validate(bbox geo.BoundingBox, scale int, format Format) error {
	if err := bbox.Validate(); err != nil {
		return err
	}
	if scale <= 0 {
		return &geo.ValidationError{Field: "scale", Message: fmt.Sprintf("must be a positive integer, got %d", scale)}
	}
	if format != FormatPNG {
		return &UnsupportedFormatError{Format: string(format)}
	}
	return nil
}

// BuildURL constructs the export request URL without performing any network
// I/O. Deterministic: identical inputs always yield identical strings. The
// query keeps the endpoint's expected parameter order (bbox, scale, format);
// commas in the bbox list are legal query characters and stay literal.
func (f *Fetcher) BuildURL(bbox geo.BoundingBox, scale int, format Format) (string, error) {
	if err := validate(bbox, scale, format); err != nil {
		return "", err
	}

	u, err := url.Parse(f.cfg.Endpoint)
	if err != nil {
		return "", &geo.ValidationError{Field: "endpoint", Message: err.Error()}
	}

	u.RawQuery = fmt.Sprintf("bbox=%s,%s,%s,%s&scale=%d&format=%s",
		formatCoord(bbox.West), formatCoord(bbox.South),
		formatCoord(bbox.East), formatCoord(bbox.North),
		scale, format)

	return u.String(), nil
}

// Fetch downloads and decodes the raster covering bbox at the given scale.
// Validation happens before any network access; the call either yields a
// complete raster with bbox attached verbatim, or exactly one typed error.
// No retries: transient failures surface to the caller.
func (f *Fetcher) Fetch(ctx context.Context, bbox geo.BoundingBox, scale int, opts Options) (*geo.Raster, error) {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}

	reqURL, err := f.BuildURL(bbox, scale, opts.Format)
	if err != nil {
		return nil, err
	}

	data, err := f.download(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if opts.SavePath != "" {
		if err := os.WriteFile(opts.SavePath, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", opts.SavePath, err)
		}
	}

	raster, err := decodePNG(data)
	if err != nil {
		return nil, err
	}

	raster.BBox = bbox

	if opts.Gray {
		return raster.Grayscale(), nil
	}
	return raster, nil
}

func (f *Fetcher) download(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &DownloadError{URL: reqURL, Err: err}
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)
	for key, value := range f.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DownloadError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DownloadError{URL: reqURL, Err: err}
	}
	return data, nil
}

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47}

// decodePNG parses the response bytes into an RGB pixel grid
func decodePNG(data []byte) (*geo.Raster, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], pngSignature) {
		return nil, &DecodeError{Err: fmt.Errorf("response is not a PNG image")}
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	pix := make([]uint8, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := (y*width + x) * 3
			pix[idx] = uint8(r >> 8)
			pix[idx+1] = uint8(g >> 8)
			pix[idx+2] = uint8(b >> 8)
		}
	}

	return &geo.Raster{
		Pix:      pix,
		Width:    width,
		Height:   height,
		Channels: geo.ChannelsRGB,
	}, nil
}

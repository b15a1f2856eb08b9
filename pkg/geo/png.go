package geo

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// EncodePNG encodes the raster's pixel grid as PNG bytes.
func EncodePNG(r *Raster) ([]byte, error) {
	var img image.Image

	switch r.Channels {
	case ChannelsGray:
		gray := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
		copy(gray.Pix, r.Pix)
		img = gray
	case ChannelsRGB:
		rgba := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
		for i := 0; i < r.Width*r.Height; i++ {
			src := i * 3
			dst := i * 4
			rgba.Pix[dst] = r.Pix[src]
			rgba.Pix[dst+1] = r.Pix[src+1]
			rgba.Pix[dst+2] = r.Pix[src+2]
			rgba.Pix[dst+3] = 255
		}
		img = rgba
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", r.Channels)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG writes the raster as PNG to filename, or stdout when empty.
func WritePNG(filename string, r *Raster) error {
	data, err := EncodePNG(r)
	if err != nil {
		return err
	}

	var output io.Writer
	if filename == "" {
		output = os.Stdout
	} else {
		file, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer file.Close()
		output = file
	}

	_, err = output.Write(data)
	return err
}

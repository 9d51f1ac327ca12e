package utils

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
)

// MirrorHorizontal returns a horizontally flipped copy of img. Selfie-style
// captures are mirrored so the saved photo matches what the preview showed.
func MirrorHorizontal(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(b.Dx()-1-x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// ScaleToRGBA draws img into a new RGBA raster of the given size. When the
// source already matches, pixels are copied without resampling.
func ScaleToRGBA(img image.Image, width, height int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	src := img.Bounds()
	if src.Dx() == width && src.Dy() == height {
		draw.Draw(out, out.Bounds(), img, src.Min, draw.Src)
		return out
	}
	// Nearest-neighbour is enough here: sizes only diverge when the stream
	// reported fallback dimensions and the real frame disagrees.
	for y := 0; y < height; y++ {
		sy := src.Min.Y + y*src.Dy()/height
		for x := 0; x < width; x++ {
			sx := src.Min.X + x*src.Dx()/width
			out.Set(x, y, img.At(sx, sy))
		}
	}
	return out
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package builder

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for the formats field cameras produce
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/crfcave/cavereport/ir/semantic"
)

// ScaledImageFromFile decodes the image at path and downscales it to fit
// within targetW x targetH pixels, preserving aspect ratio. Images already
// small enough pass through undisturbed.
func ScaledImageFromFile(path string, targetW, targetH int) (*semantic.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(downscale(img, targetW, targetH)), nil
}

// downscale reduces src to fit within targetW x targetH. It never enlarges.
func downscale(src image.Image, targetW, targetH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if targetW <= 0 || targetH <= 0 || (w <= targetW && h <= targetH) {
		return src
	}
	scale := float64(targetW) / float64(w)
	if s := float64(targetH) / float64(h); s < scale {
		scale = s
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// FromImage converts a standard Go image.Image to *semantic.Image. It
// extracts RGB samples and creates a soft mask when any pixel is
// transparent.
func FromImage(src image.Image) *semantic.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Non-premultiplied alpha preserves the raw color values.
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, xdraw.Src)

	pixels := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	hasAlpha := false

	for i := 0; i < w*h; i++ {
		offset := i * 4
		pixels = append(pixels, nrgba.Pix[offset], nrgba.Pix[offset+1], nrgba.Pix[offset+2])

		a := nrgba.Pix[offset+3]
		alpha = append(alpha, a)
		if a < 255 {
			hasAlpha = true
		}
	}

	img := &semantic.Image{
		Width:            w,
		Height:           h,
		ColorSpace:       "DeviceRGB",
		BitsPerComponent: 8,
		Data:             pixels,
	}

	if hasAlpha {
		img.SMask = &semantic.Image{
			Width:            w,
			Height:           h,
			ColorSpace:       "DeviceGray",
			BitsPerComponent: 8,
			Data:             alpha,
		}
	}

	return img
}

package images

import (
	"image"
	"image/color"
	"image/draw"
)

// IsGrayscale reports whether all pixels of img have R==G==B. Decoded JPEGs
// are checked on chroma planes directly.
func IsGrayscale(img image.Image) bool {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	case *image.YCbCr:
		return neutralChroma(m)
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R != c.G || c.G != c.B {
				return false
			}
		}
	}
	return true
}

func neutralChroma(m *image.YCbCr) bool {
	for _, plane := range [][]byte{m.Cb, m.Cr} {
		for _, v := range plane {
			if v != 128 {
				return false
			}
		}
	}
	return true
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	dst := image.NewGray(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// isOpaque checks alpha for images which know how to report it.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return true
}

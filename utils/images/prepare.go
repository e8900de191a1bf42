package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for data which is not an image we could embed.
var ErrUnsupported = errors.New("unsupported image format")

// Image is ready to be embedded into PDF document as is.
type Image struct {
	Data []byte
	// Type is one of "JPG", "PNG" or "GIF".
	Type   string
	Width  int
	Height int
}

// Options controls image transformation.
type Options struct {
	// JPEGQuality is used when image has to be re-encoded as JPEG.
	JPEGQuality int
	// Grayscale stores re-encoded images which have no color as 8-bit gray.
	Grayscale bool
	// SVGWidth is rasterization width for vector images, 0 keeps viewBox size.
	SVGWidth int
	// MaxWidth downsizes wider images, 0 disables.
	MaxWidth int
}

// Prepare sniffs image format and either passes data through or
// converts it to something PDF writer understands natively.
func Prepare(data []byte, opts Options) (*Image, error) {
	if IsSVG(data) {
		img, err := RasterizeSVG(data, opts.SVGWidth, 0)
		if err != nil {
			return nil, fmt.Errorf("unable to rasterize svg: %w", err)
		}
		return reencode(img, opts)
	}

	kind, err := filetype.Image(data)
	if err != nil || kind == filetype.Unknown {
		return nil, ErrUnsupported
	}

	switch kind.Extension {
	case "jpg":
		return passThrough(data, "JPG", opts)
	case "png":
		// 16-bit and interlaced PNG cannot be embedded directly
		if len(data) > 28 && (data[24] > 8 || data[28] == 1) {
			return decodeAndReencode(data, opts)
		}
		return passThrough(data, "PNG", opts)
	case "gif":
		return passThrough(data, "GIF", opts)
	case "bmp", "tif", "webp":
		return decodeAndReencode(data, opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind.MIME.Value)
}

func passThrough(data []byte, typ string, opts Options) (*Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image header: %w", err)
	}
	if opts.MaxWidth > 0 && cfg.Width > opts.MaxWidth {
		return decodeAndReencode(data, opts)
	}
	return &Image{Data: data, Type: typ, Width: cfg.Width, Height: cfg.Height}, nil
}

func decodeAndReencode(data []byte, opts Options) (*Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image: %w", err)
	}
	return reencode(img, opts)
}

func reencode(img image.Image, opts Options) (*Image, error) {
	if opts.MaxWidth > 0 && img.Bounds().Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}

	var (
		buf bytes.Buffer
		typ string
		err error
	)
	if isOpaque(img) {
		if opts.Grayscale && IsGrayscale(img) {
			img = toGray(img)
		}
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = 75
		}
		typ, err = "JPG", imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	} else {
		typ, err = "PNG", imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	}
	if err != nil {
		return nil, fmt.Errorf("unable to encode image: %w", err)
	}
	return &Image{Data: buf.Bytes(), Type: typ, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
}

package images

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"regexp"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// size used when SVG has no usable viewBox
const defaultSVGSize = 1024

// Upper bound for either raster dimension, viewBox="0 0 100000 100000" would
// otherwise allocate tens of gigabytes.
var maxRasterDim = 8192

var svgRoot = regexp.MustCompile(`(?is)^\s*(<\?xml[^>]*>\s*)?(<!--.*?-->\s*|<!DOCTYPE[^>]*>\s*)*<svg[\s>]`)

// IsSVG reports whether data looks like SVG document.
func IsSVG(data []byte) bool {
	return svgRoot.Match(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
}

// RasterizeSVG renders SVG on white background. With both target dimensions
// zero intrinsic viewBox size is used, with one of them set the other keeps
// aspect ratio, with both set image is fit into the box.
func RasterizeSVG(svgData []byte, targetW, targetH int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}

	iw, ih := int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H))
	if iw <= 0 {
		iw = defaultSVGSize
	}
	if ih <= 0 {
		ih = defaultSVGSize
	}

	w, h := iw, ih
	switch {
	case targetW > 0 && targetH > 0:
		scale := math.Min(float64(targetW)/float64(iw), float64(targetH)/float64(ih))
		w, h = int(math.Round(float64(iw)*scale)), int(math.Round(float64(ih)*scale))
	case targetW > 0:
		w, h = targetW, int(math.Round(float64(targetW)*float64(ih)/float64(iw)))
	case targetH > 0:
		w, h = int(math.Round(float64(targetH)*float64(iw)/float64(ih))), targetH
	}
	w, h = max(w, 1), max(h, 1)

	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return dst, nil
}

package sink

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/matzehuels/bubblerow/pkg/lineup"
)

// PNGOption configures [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the raster zoom factor. The default is 2.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// RenderPNG rasterizes the frame's SVG.
func RenderPNG(fr lineup.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2}
	for _, opt := range opts {
		opt(&r)
	}
	return ToPNG(RenderSVG(fr, r.svgOpts...), r.scale)
}

// RenderPDF converts the frame's SVG to PDF.
func RenderPDF(fr lineup.Frame, opts ...SVGOption) ([]byte, error) {
	return ToPDF(RenderSVG(fr, opts...))
}

// ToPNG converts svg to PNG at the given zoom.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(svg, "-f", "png", "-z", strconv.FormatFloat(scale, 'f', -1, 64))
}

// ToPDF converts svg to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "-f", "pdf")
}

var rsvgBinary = "rsvg-convert"

func rsvgConvert(svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, fmt.Errorf("%s not found (install librsvg): %w", rsvgBinary, err)
	}
	cmd := exec.Command(path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", rsvgBinary, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}

package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/bubblerow/pkg/lineup"
)

// MaxDrawScale caps the drawn relative scale of any bubble.
const MaxDrawScale = 5.0

const (
	defaultWidth  = 1200.0
	defaultHeight = 480.0
	defaultUnit   = 160.0
)

const bubbleCSS = `
    .bubble { fill: #4a7bd0; stroke: #1d3f7a; }
    .bubble.selected { fill: #e8963c; stroke: #8a4a0e; }
    .label { font: 14px sans-serif; fill: #222; text-anchor: middle; }
    .label.selected { font-weight: bold; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	unit          float64
	maxScale      float64
	labels        bool
	captions      map[int]string
}

// WithSize sets the SVG viewport in pixels.
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithUnit sets the pixel diameter of one scale unit, which is the
// diameter of the centred bubble.
func WithUnit(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.unit = px
		}
	}
}

// WithMaxDrawScale overrides [MaxDrawScale].
func WithMaxDrawScale(s float64) SVGOption {
	return func(r *svgRenderer) {
		if s > 0 {
			r.maxScale = s
		}
	}
}

// WithLabels draws entity names under each bubble.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithCaptions adds a second line under the label, keyed by entity id.
func WithCaptions(c map[int]string) SVGOption {
	return func(r *svgRenderer) { r.captions = c }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		width:    defaultWidth,
		height:   defaultHeight,
		unit:     defaultUnit,
		maxScale: MaxDrawScale,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// bubble is one circle in pixel space.
type bubble struct {
	item     lineup.FrameItem
	cx, cy   float64
	r        float64
	selected bool
}

// RenderSVG draws the frame as a row of bottom-aligned circles with the
// centred entity in the middle of the viewport.
func RenderSVG(fr lineup.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	bubbles := r.layout(fr)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", bubbleCSS)

	for _, b := range bubbles {
		class := "bubble"
		if b.selected {
			class += " selected"
		}
		fmt.Fprintf(&buf, `  <circle id="entity-%d" class="%s" cx="%.2f" cy="%.2f" r="%.2f" fill-opacity="%.2f"/>`+"\n",
			b.item.ID, class, b.cx, b.cy, b.r, 0.5+0.5*b.item.Selection)
	}
	if r.labels {
		for _, b := range bubbles {
			r.renderLabel(&buf, b)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// layout converts frame items to pixel circles, dropping those that fall
// entirely outside the viewport.
func (r *svgRenderer) layout(fr lineup.Frame) []bubble {
	baseline := r.baseline()
	centre := r.width / 2

	out := make([]bubble, 0, len(fr.Items))
	for _, it := range fr.Items {
		s := min(it.Scale, r.maxScale)
		if !(s > 0) {
			continue
		}
		b := bubble{
			item:     it,
			r:        s * r.unit / 2,
			cx:       centre + it.Offset*r.unit,
			selected: fr.SelectedID != nil && *fr.SelectedID == it.ID,
		}
		b.cy = baseline - b.r
		if b.cx+b.r < 0 || b.cx-b.r > r.width {
			continue
		}
		out = append(out, b)
	}
	return out
}

// baseline leaves room for two text lines under the bubbles.
func (r *svgRenderer) baseline() float64 {
	return r.height - 48
}

func (r *svgRenderer) renderLabel(buf *bytes.Buffer, b bubble) {
	class := "label"
	if b.selected {
		class += " selected"
	}
	y := r.baseline() + 20
	fmt.Fprintf(buf, `  <text class="%s" x="%.2f" y="%.2f">%s</text>`+"\n", class, b.cx, y, escape(b.item.Name))
	if c, ok := r.captions[b.item.ID]; ok {
		fmt.Fprintf(buf, `  <text class="%s" x="%.2f" y="%.2f">%s</text>`+"\n", class, b.cx, y+18, escape(c))
	}
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Package sink renders a [lineup.Frame] into output formats.
//
// Renderers consume relative transforms only; they never see raw metric
// values or the packing table. One scale unit is drawn as [WithUnit]
// pixels, so the centred entity always has the same on-screen diameter and
// its neighbours grow or shrink around it as the frame index moves.
//
//	fr := lineup.NewFrame(l, coord, spacing, lineup.Names(entities))
//	svg := sink.RenderSVG(fr, sink.WithSize(1200, 400), sink.WithLabels())
//
// Drawn scales are clamped at [MaxDrawScale]; the frame data itself is
// never clamped.
//
// [RenderPNG] and [RenderPDF] convert the SVG with rsvg-convert from librsvg
// (brew install librsvg, apt install librsvg2-bin).
package sink

import "github.com/matzehuels/bubblerow/pkg/lineup"

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatJSON, FormatPNG, FormatPDF}

// Render dispatches to the renderer for format. svgOpts apply to SVG and
// the SVG-derived formats.
func Render(format string, fr lineup.Frame, svgOpts ...SVGOption) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(fr, svgOpts...), nil
	case FormatJSON:
		return RenderJSON(fr)
	case FormatPNG:
		return RenderPNG(fr, WithPNGSVGOptions(svgOpts...))
	case FormatPDF:
		return RenderPDF(fr, svgOpts...)
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

// UnsupportedFormatError reports an unknown format name.
type UnsupportedFormatError struct{ Format string }

func (e *UnsupportedFormatError) Error() string {
	return "unsupported format: " + e.Format
}

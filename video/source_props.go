package video

import "github.com/vqmetrics/mclgo/pixfmt"

// SequenceParams names everything needed to open a raw file source.
//
// Adapted from gometrics/video/source_props.go's ColorProperties, which
// described a decoded stream's colorspace for handoff to the vship CGo
// backend. This engine performs no colorspace-aware conversion, so
// SequenceParams instead names raw geometry and layout: the fields a
// CLI -st/-bd/-rshift/-btm_first flag group actually populates.
type SequenceParams struct {
	Path        string
	Width       int
	Height      int
	Tag         pixfmt.Tag
	BitDepth    pixfmt.BitDepth
	RShift      uint
	BottomFirst bool
	Alpha       bool // include the RGB/AYUV/Y416 alpha plane in the selection
}

// ResolvedBitDepth returns the bit depth to use for demux/primitive
// dispatch: the tag's forced depth (Y410/A2RGB10 force 10-bit, Y416/
// ARGB16 force 16-bit) overrides whatever -bd supplied.
func (p SequenceParams) ResolvedBitDepth() pixfmt.BitDepth {
	if forced, ok := p.Tag.ForcedBitDepth(); ok {
		return forced
	}
	return p.BitDepth
}

// Package render draws ranked input sequences as an image: one row per
// sequence, one column per frame.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/search"
)

// #region palette
var (
	colorAny   = color.RGBA{255, 255, 255, 255}
	colorTrue  = color.RGBA{0, 255, 0, 255}
	colorFalse = color.RGBA{255, 0, 0, 255}
)

// Color returns the pixel color for an input.
func Color(in neck.Input) color.RGBA {
	switch in {
	case neck.InputTrue:
		return colorTrue
	case neck.InputFalse:
		return colorFalse
	}
	return colorAny
}

// #endregion palette

// #region image
// Image lays out the sequences, easiest at the top.
func Image(seqs []search.Sequence, frames int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frames, len(seqs)))
	for y, seq := range seqs {
		for x := 0; x < frames; x++ {
			in := neck.InputAny
			if x < len(seq.Inputs) {
				in = seq.Inputs[x]
			}
			img.SetRGBA(x, y, Color(in))
		}
	}
	return img
}

// PNG encodes the sequences as a PNG.
func PNG(w io.Writer, seqs []search.Sequence, frames int) error {
	if err := png.Encode(w, Image(seqs, frames)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// #endregion image

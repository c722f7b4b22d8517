package render

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// EncodeGIF assembles rendered frames into a looping animated GIF at
// the given frame rate. Frames are quantized to the Plan 9 palette.
func EncodeGIF(w io.Writer, frames []image.Image, fps int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	if fps <= 0 {
		fps = 15
	}
	delay := 100 / fps // GIF delay unit is 1/100 s
	if delay < 1 {
		delay = 1
	}

	anim := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, frame := range frames {
		paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, frame.Bounds(), frame, frame.Bounds().Min)
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, anim)
}

// WriteGIF encodes frames to a file.
func WriteGIF(path string, frames []image.Image, fps int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating gif: %w", err)
	}
	if err := EncodeGIF(f, frames, fps); err != nil {
		f.Close()
		return fmt.Errorf("encoding gif: %w", err)
	}
	return f.Close()
}

package cv

import "image"

// gradientFrame builds a deterministic vertical-gradient frame. Two
// frames whose starts differ by dy look like the same content scrolled
// dy pixels, which makes overlap results exactly predictable.
func gradientFrame(width, height, start int) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8((start + y + x/3) % 255)
			idx := y*frame.Stride + x*4
			frame.Pix[idx] = v
			frame.Pix[idx+1] = v / 2
			frame.Pix[idx+2] = 255 - v
			frame.Pix[idx+3] = 255
		}
	}
	return frame
}

// solidFrame builds a frame filled with a single color.
func solidFrame(width, height int, r, g, b uint8) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*frame.Stride + x*4
			frame.Pix[idx] = r
			frame.Pix[idx+1] = g
			frame.Pix[idx+2] = b
			frame.Pix[idx+3] = 255
		}
	}
	return frame
}

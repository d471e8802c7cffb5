package hub

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	"github.com/qeesung/image2ascii/convert"

	"github.com/hubward/smarthub/gallery"
)

// screensaver holds the player state while the screensaver is active. The
// image list is loaded once on activation and not refreshed until the next
// activation.
type screensaver struct {
	images  []gallery.Record
	index   int
	frame   string
	loading bool
}

func (s *screensaver) reset() {
	s.images = nil
	s.index = 0
	s.frame = ""
	s.loading = true
}

// advance moves to the next image, wrapping at the end.
func (s *screensaver) advance() {
	if len(s.images) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.images)
}

func (s *screensaver) current() (gallery.Record, bool) {
	if s.index >= len(s.images) {
		return gallery.Record{}, false
	}
	return s.images[s.index], true
}

const maxRenderDim = 1080

// renderASCII decodes an image payload and converts it to colored ASCII art
// sized for the terminal.
func renderASCII(data []byte, width, height int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Bound the source resolution before conversion; huge photos make the
	// converter crawl.
	bounds := img.Bounds()
	if bounds.Dx() > maxRenderDim || bounds.Dy() > maxRenderDim {
		img = resize.Thumbnail(maxRenderDim, maxRenderDim, img, resize.Bilinear)
	}

	converter := convert.NewImageConverter()
	opts := convert.DefaultOptions
	opts.FixedWidth = width
	opts.FixedHeight = height
	opts.Colored = true
	opts.Ratio = 0.5 // terminal characters are roughly twice as tall as wide

	return converter.Image2ASCIIString(img, &opts), nil
}

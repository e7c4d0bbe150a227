package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder synthesizes a labeled PNG for an entity when no external image
// source is available. Output is fully deterministic for a given input: same
// label, entity type, and dimensions always produce identical pixels.

const (
	DefaultWidth  = 1024
	DefaultHeight = 1024
)

type palette struct {
	background color.NRGBA
	band       color.NRGBA
	text       color.NRGBA
}

var palettes = map[string]palette{
	"listing":      {background: color.NRGBA{R: 0x2b, G: 0x3a, B: 0x55, A: 0xff}, band: color.NRGBA{R: 0x1f, G: 0x2a, B: 0x3e, A: 0xff}, text: color.NRGBA{R: 0xf2, G: 0xf4, B: 0xf8, A: 0xff}},
	"article":      {background: color.NRGBA{R: 0x3c, G: 0x55, B: 0x43, A: 0xff}, band: color.NRGBA{R: 0x2a, G: 0x3e, B: 0x30, A: 0xff}, text: color.NRGBA{R: 0xf2, G: 0xf8, B: 0xf3, A: 0xff}},
	"news":         {background: color.NRGBA{R: 0x5a, G: 0x3d, B: 0x3d, A: 0xff}, band: color.NRGBA{R: 0x42, G: 0x2b, B: 0x2b, A: 0xff}, text: color.NRGBA{R: 0xf8, G: 0xf2, B: 0xf2, A: 0xff}},
	"neighborhood": {background: color.NRGBA{R: 0x4d, G: 0x44, B: 0x5e, A: 0xff}, band: color.NRGBA{R: 0x38, G: 0x31, B: 0x46, A: 0xff}, text: color.NRGBA{R: 0xf5, G: 0xf2, B: 0xf8, A: 0xff}},
}

var fallbackPalette = palette{
	background: color.NRGBA{R: 0x44, G: 0x48, B: 0x4d, A: 0xff},
	band:       color.NRGBA{R: 0x32, G: 0x35, B: 0x39, A: 0xff},
	text:       color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff},
}

// Placeholder renders the terminal-fallback image and returns PNG bytes.
func Placeholder(label, entityType string, width, height int) ([]byte, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	colors, ok := palettes[strings.ToLower(strings.TrimSpace(entityType))]
	if !ok {
		colors = fallbackPalette
	}

	canvas := imaging.New(width, height, colors.background)

	// 底部色带承载文字标签
	bandHeight := height / 5
	if bandHeight < basicfont.Face7x13.Height*3 {
		bandHeight = basicfont.Face7x13.Height * 3
	}
	band := imaging.New(width, bandHeight, colors.band)
	canvas = imaging.Paste(canvas, band, image.Pt(0, height-bandHeight))

	text := normalizeLabel(label, entityType, width)
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(colors.text),
		Face: basicfont.Face7x13,
	}
	textWidth := drawer.MeasureString(text).Ceil()
	drawer.Dot = fixed.P((width-textWidth)/2, height-bandHeight/2+basicfont.Face7x13.Height/2)
	drawer.DrawString(text)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeLabel upper-cases the label and trims it to the drawable width.
// basicfont only covers ASCII, so anything else is replaced up front.
func normalizeLabel(label, entityType string, width int) string {
	text := strings.ToUpper(strings.TrimSpace(label))
	if text == "" {
		text = strings.ToUpper(strings.TrimSpace(entityType))
	}
	if text == "" {
		text = "IMAGE"
	}

	builder := strings.Builder{}
	builder.Grow(len(text))
	for _, r := range text {
		if r >= 0x20 && r < 0x7f {
			builder.WriteRune(r)
		} else {
			builder.WriteByte('?')
		}
	}
	text = builder.String()

	maxChars := (width - 2*basicfont.Face7x13.Advance) / basicfont.Face7x13.Advance
	if maxChars < 4 {
		maxChars = 4
	}
	if len(text) > maxChars {
		text = text[:maxChars-3] + "..."
	}
	return text
}

package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	// Additional decoders for uploaded logos.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxLogoWidth bounds the pixel width of an embedded logo.
const maxLogoWidth = 600

// Logo is an image ready to embed in either document format.
type Logo struct {
	Data   []byte
	Format string // "png", "jpeg" or "gif"
	Width  int
	Height int
}

// Ext is the file extension for the logo's format.
func (l *Logo) Ext() string {
	if l.Format == "jpeg" {
		return "jpg"
	}
	return l.Format
}

// pdfType is the image type name fpdf expects.
func (l *Logo) pdfType() string {
	switch l.Format {
	case "jpeg":
		return "JPG"
	case "gif":
		return "GIF"
	default:
		return "PNG"
	}
}

// PrepareLogo validates an uploaded logo. PNG, JPEG and GIF are kept as
// they are; WebP, BMP and TIFF are re-encoded as PNG. Oversized images are
// scaled down to maxLogoWidth.
func PrepareLogo(data []byte) (*Logo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty logo")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("logo has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}

	native := format == "png" || format == "jpeg" || format == "gif"
	if native && cfg.Width <= maxLogoWidth {
		return &Logo{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	if img.Bounds().Dx() > maxLogoWidth {
		img = scaleToWidth(img, maxLogoWidth)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	b := img.Bounds()
	return &Logo{Data: buf.Bytes(), Format: "png", Width: b.Dx(), Height: b.Dy()}, nil
}

func scaleToWidth(src image.Image, width int) image.Image {
	sb := src.Bounds()
	height := sb.Dy() * width / sb.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}

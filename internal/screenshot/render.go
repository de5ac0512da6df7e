package screenshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type kind int

const (
	kindHTML kind = iota
	kindPDF
	kindOther
	kindError
)

type palette struct {
	background, header, block, footer color.RGBA
	headerHeight                      int
}

var palettes = map[kind]palette{
	kindHTML:  {color.RGBA{250, 250, 250, 255}, color.RGBA{52, 73, 94, 255}, color.RGBA{149, 165, 166, 255}, color.RGBA{44, 62, 80, 255}, 60},
	kindPDF:   {color.RGBA{245, 245, 250, 255}, color.RGBA{41, 128, 185, 255}, color.RGBA{100, 100, 100, 255}, color.RGBA{200, 200, 200, 255}, 100},
	kindOther: {color.RGBA{230, 245, 230, 255}, color.RGBA{46, 204, 113, 255}, color.RGBA{52, 152, 219, 255}, color.RGBA{200, 220, 200, 255}, 120},
	kindError: {color.RGBA{245, 230, 230, 255}, color.RGBA{231, 76, 60, 255}, color.RGBA{192, 57, 43, 255}, color.RGBA{220, 200, 200, 255}, 150},
}

// render draws a viewport-sized placeholder: a colored header carrying the
// URL and detail text, grey blocks standing in for content, and a footer.
func render(k kind, url, detail string) *image.RGBA {
	p := palettes[k]
	w, h := viewportWidth, viewportHeight
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := func(r image.Rectangle, c color.RGBA) {
		draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
	}
	fill(img.Bounds(), p.background)
	fill(image.Rect(0, 0, w, p.headerHeight), p.header)
	if k == kindError {
		fill(image.Rect(50, 250, w-50, 350), p.block)
	} else {
		for y := p.headerHeight + 50; y+30 < h-100; y += 45 {
			fill(image.Rect(40, y, w-40, y+25), p.block)
		}
	}
	fill(image.Rect(0, h-50, w, h), p.footer)

	white := color.RGBA{255, 255, 255, 255}
	label(img, 20, 30, url, white)
	if detail != "" {
		label(img, 20, 55, detail, white)
	}
	return img
}

func label(img *image.RGBA, x, y int, text string, c color.Color) {
	maxChars := (img.Bounds().Dx() - 2*x) / basicfont.Face7x13.Advance
	if r := []rune(text); len(r) > maxChars {
		text = string(r[:maxChars])
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func renderFile(path string, k kind, url, detail string) error {
	return writePNG(path, render(k, url, detail))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

const (
	minScaledWidth = 64
	maxShrinkSteps = 4
)

// limitSize halves the image at path until it is at most maxBytes or too
// small to shrink further, and returns the final file size. maxBytes <= 0
// leaves the file alone.
func limitSize(path string, maxBytes int64) (int64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	size := st.Size()
	if maxBytes <= 0 || size <= maxBytes {
		return size, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return size, err
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return size, fmt.Errorf("decode image: %w", err)
	}
	for step := 0; step < maxShrinkSteps && size > maxBytes; step++ {
		b := src.Bounds()
		if b.Dx()/2 < minScaledWidth {
			break
		}
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()/2, b.Dy()/2))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
		if err := writePNG(path, dst); err != nil {
			return size, err
		}
		st, err := os.Stat(path)
		if err != nil {
			return size, err
		}
		size = st.Size()
		src = dst
	}
	return size, nil
}

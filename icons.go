package pubgen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

const (
	// iconSize is twice the rendered 40px so the toggle stays sharp on HiDPI screens.
	iconSize = 80
	// Procedural icons are drawn at this multiple and downsampled to smooth edges.
	iconSupersample = 4
)

var (
	sunColor  = color.RGBA{R: 0xf5, G: 0xb7, B: 0x00, A: 0xff}
	moonColor = color.RGBA{R: 0x8a, G: 0x9b, B: 0xd8, A: 0xff}
)

// ToggleIcons returns the PNG bytes for sun.png and moon.png. Images under
// staticDir/images with those names are scaled to the icon size; missing
// ones are drawn.
func ToggleIcons(staticDir string) (map[string][]byte, error) {
	icons := map[string]func() image.Image{
		"sun.png":  drawSun,
		"moon.png": drawMoon,
	}
	out := make(map[string][]byte, len(icons))
	for name, fallback := range icons {
		img, err := loadIcon(filepath.Join(staticDir, "images", name))
		if err != nil {
			return nil, err
		}
		if img == nil {
			img = fallback()
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, scaleIcon(img)); err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		out[name] = buf.Bytes()
	}
	return out, nil
}

// loadIcon decodes a user supplied icon. A missing file yields nil, nil.
func loadIcon(path string) (image.Image, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", path, err)
	}
	return img, nil
}

// scaleIcon fits img into an iconSize square, keeping its aspect ratio and
// centring it on a transparent background.
func scaleIcon(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	if w == 0 || h == 0 {
		return dst
	}
	tw, th := iconSize, iconSize
	if w > h {
		th = h * iconSize / w
	} else if h > w {
		tw = w * iconSize / h
	}
	x0, y0 := (iconSize-tw)/2, (iconSize-th)/2
	draw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+tw, y0+th), img, bounds, draw.Over, nil)
	return dst
}

func drawSun() image.Image {
	size := iconSize * iconSupersample
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	core := 0.22 * float64(size)
	rayIn, rayOut := 0.30*float64(size), 0.46*float64(size)
	rayHalfWidth := 0.035 * float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			r := math.Hypot(dx, dy)
			if r <= core {
				img.SetRGBA(x, y, sunColor)
				continue
			}
			if r < rayIn || r > rayOut {
				continue
			}
			// Eight rays every 45 degrees; distance from the nearest ray axis.
			angle := math.Atan2(dy, dx)
			nearest := math.Round(angle/(math.Pi/4)) * (math.Pi / 4)
			if math.Abs(r*math.Sin(angle-nearest)) <= rayHalfWidth {
				img.SetRGBA(x, y, sunColor)
			}
		}
	}
	return img
}

func drawMoon() image.Image {
	size := iconSize * iconSupersample
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	outer := 0.38 * float64(size)
	inner := 0.32 * float64(size)
	ox, oy := c+0.18*float64(size), c-0.14*float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			if math.Hypot(px-c, py-c) > outer {
				continue
			}
			if math.Hypot(px-ox, py-oy) <= inner {
				continue
			}
			img.SetRGBA(x, y, moonColor)
		}
	}
	return img
}

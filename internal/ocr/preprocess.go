package ocr

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sort"

	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"
)

func colorGray(v byte) color.Gray { return color.Gray{Y: v} }

// Adaptive threshold parameters: neighborhood window and the constant
// subtracted from the local mean.
const (
	threshWindow = 11
	threshC      = 2
)

// PreprocessAdvanced writes a cleaned copy of the receipt image for the
// second tesseract pass: grayscale, 2x upscale, median denoise, adaptive
// threshold. Returns the temp file path and a cleanup func.
func PreprocessAdvanced(imagePath, artifactDir string) (string, func(), error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}

	gray := toGray(src)
	scaled := upscale2x(gray)
	denoised := medianFilter(scaled)
	binary := adaptiveThreshold(denoised, threshWindow, threshC)

	if artifactDir != "" {
		if err := os.MkdirAll(artifactDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("artifact dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(artifactDir, "receipt-prep-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("temp file: %w", err)
	}
	if err := png.Encode(tmp, binary); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", nil, err
	}
	name := tmp.Name()
	return name, func() { _ = os.Remove(name) }, nil
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

func upscale2x(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// medianFilter applies a 3x3 median, enough to knock out salt-and-pepper
// speckle from phone photos without blurring glyph edges.
func medianFilter(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)
	var window [9]byte
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					yy, xx := y+dy, x+dx
					if yy < 0 || yy >= h || xx < 0 || xx >= w {
						continue
					}
					window[n] = src.GrayAt(xx, yy).Y
					n++
				}
			}
			s := window[:n]
			sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
			dst.SetGray(x, y, colorGray(s[n/2]))
		}
	}
	return dst
}

// adaptiveThreshold binarizes against the local neighborhood mean minus a
// small constant, computed over an integral image so the window cost stays
// constant per pixel.
func adaptiveThreshold(src *image.Gray, window, c int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	integral := make([]int64, (w+1)*(h+1))
	stride := w + 1
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(src.GrayAt(x, y).Y)
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + rowSum
		}
	}

	half := window / 2
	dst := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(x-half, 0), max(y-half, 0)
			x1, y1 := min(x+half+1, w), min(y+half+1, h)
			area := int64((x1 - x0) * (y1 - y0))
			sum := integral[y1*stride+x1] - integral[y0*stride+x1] -
				integral[y1*stride+x0] + integral[y0*stride+x0]
			mean := sum / area
			if int64(src.GrayAt(x, y).Y) > mean-int64(c) {
				dst.SetGray(x, y, colorGray(255))
			} else {
				dst.SetGray(x, y, colorGray(0))
			}
		}
	}
	return dst
}

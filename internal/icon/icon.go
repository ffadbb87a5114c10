// Package icon loads a window icon from disk and converts it to the ARGB
// pixel layout window managers expect.
package icon

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// MaxSize is the largest edge, in pixels, of a loaded icon. Larger images are
// scaled down preserving their aspect ratio.
const MaxSize = 256

// ErrUnsupportedFormat is returned for files that are not a raster image
// glacier can decode.
var ErrUnsupportedFormat = errors.New("unsupported icon format")

// Image is a decoded icon: row-major, one 0xAARRGGBB value per pixel,
// alpha not premultiplied.
type Image struct {
	Width  int
	Height int
	ARGB   []uint32
}

var decoders = []struct {
	mime   string
	decode func(io.Reader) (image.Image, error)
}{
	{"image/png", png.Decode},
	{"image/jpeg", jpeg.Decode},
	{"image/gif", gif.Decode},
	{"image/bmp", bmp.Decode},
	{"image/webp", webp.Decode},
	{"image/tiff", tiff.Decode},
}

// Load reads the image at path. The format is sniffed from the file content,
// not its extension.
func Load(path string) (Image, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read icon %s: %w", path, err)
	}

	decode := decoderFor(mtype)
	if decode == nil {
		return Image{}, fmt.Errorf("%w: %s is %s", ErrUnsupportedFormat, path, mtype.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to open icon %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode icon %s: %w", path, err)
	}
	return FromImage(img), nil
}

func decoderFor(mtype *mimetype.MIME) func(io.Reader) (image.Image, error) {
	for _, d := range decoders {
		if mtype.Is(d.mime) {
			return d.decode
		}
	}
	return nil
}

// FromImage scales img to fit MaxSize and converts it to ARGB.
func FromImage(img image.Image) Image {
	bounds := img.Bounds()
	w, h := fit(bounds.Dx(), bounds.Dy(), MaxSize)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	}

	out := Image{Width: w, Height: h, ARGB: make([]uint32, 0, w*h)}
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			out.ARGB = append(out.ARGB,
				uint32(p[3])<<24|uint32(p[0])<<16|uint32(p[1])<<8|uint32(p[2]))
		}
	}
	return out
}

// fit returns w x h scaled down so neither edge exceeds limit. Edges are at
// least one pixel.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

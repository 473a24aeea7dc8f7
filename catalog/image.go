package catalog

import (
	"fmt"
	"image"
	"io"

	// decoders registered with image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/image/draw"

	"github.com/tiggercwh/go-picross/picross"
)

// ReadImage decodes any registered image format.
func ReadImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return img, format, nil
}

// DecodeImage reads an image and turns it into a puzzle, one cell per pixel.
func DecodeImage(r io.Reader) (*picross.Puzzle, error) {
	img, _, err := ReadImage(r)
	if err != nil {
		return nil, err
	}
	return picross.FromImage(img)
}

// Resample scales img to width x height with nearest-neighbour sampling, so
// every output pixel keeps an exact source color.
func Resample(img image.Image, width, height int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

package render

import (
	"fmt"
	"image"
	"image/png"

	"github.com/valyala/bytebufferpool"
)

var pngEncoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// EncodePNG serializes img into a fresh byte slice.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrRender)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := pngEncoder.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

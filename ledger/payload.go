package ledger

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/g3lasio/owlfenc/model"
)

const (
	// maxDrawnBytes bounds the decoded size of a drawn signature image.
	maxDrawnBytes = 2 << 20
	// MaxDrawnSide bounds each dimension of a drawn signature, checked from
	// the image header before any pixels are decoded.
	MaxDrawnSide = 4096
)

// CheckPayload verifies the signature data for its type. A typed signature
// must be non-blank; a drawn one must decode to an image with at least one
// pixel that is not fully transparent.
func CheckPayload(typ model.SignatureType, data string) error {
	switch typ {
	case model.SignatureTyped:
		if strings.TrimSpace(data) == "" {
			return fmt.Errorf("%w: typed signature is blank", model.ErrInvalidSignature)
		}
		return nil
	case model.SignatureDrawn:
		img, err := DecodeDrawn(data)
		if err != nil {
			return err
		}
		if !hasInk(img) {
			return fmt.Errorf("%w: drawn signature is empty", model.ErrInvalidSignature)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown signature type %q", model.ErrInvalidSignature, typ)
	}
}

// DecodeDrawn decodes a base64 PNG or JPEG, with or without a data URL prefix.
// Images larger than MaxDrawnSide on either side are rejected.
func DecodeDrawn(data string) (image.Image, error) {
	raw, err := DrawnBytes(data)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable image: %v", model.ErrInvalidSignature, err)
	}
	if cfg.Width > MaxDrawnSide || cfg.Height > MaxDrawnSide {
		return nil, fmt.Errorf("%w: image is %dx%d, limit is %dx%d",
			model.ErrInvalidSignature, cfg.Width, cfg.Height, MaxDrawnSide, MaxDrawnSide)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable image: %v", model.ErrInvalidSignature, err)
	}
	return img, nil
}

// DrawnBytes strips an optional data URL prefix and decodes the base64 body.
func DrawnBytes(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, fmt.Errorf("%w: drawn signature is empty", model.ErrInvalidSignature)
	}
	if strings.HasPrefix(data, "data:") {
		comma := strings.IndexByte(data, ',')
		if comma < 0 || !strings.Contains(data[:comma], ";base64") {
			return nil, fmt.Errorf("%w: malformed data URL", model.ErrInvalidSignature)
		}
		data = data[comma+1:]
	}
	if base64.StdEncoding.DecodedLen(len(data)) > maxDrawnBytes {
		return nil, fmt.Errorf("%w: image too large", model.ErrInvalidSignature)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", model.ErrInvalidSignature, err)
	}
	return raw, nil
}

func hasInk(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				return true
			}
		}
	}
	return false
}

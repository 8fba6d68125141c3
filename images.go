package pubsite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// logoVariant is one resized copy of the site logo.
type logoVariant struct {
	Name  string
	Width int
}

// logoVariants are the icons the manifest and the service worker reference.
var logoVariants = []logoVariant{
	{Name: "logo-white-512.png", Width: 512},
	{Name: "logo-white-192.png", Width: 192},
}

const logoSubdir = "assets/images"

// resizeImage scales img to width, preserving the aspect ratio. Images
// already at that width are returned unchanged.
func resizeImage(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == width || w == 0 {
		return img
	}
	newH := h * width / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// writeLogoVariants decodes the logo at src and writes every variant as
// PNG under outDir/assets/images. A missing logo is not an error; the
// returned count is zero.
func writeLogoVariants(src, outDir string) (int, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("decode logo %s: %w", src, err)
	}

	dir := filepath.Join(outDir, filepath.FromSlash(logoSubdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create logo dir: %w", err)
	}
	for _, v := range logoVariants {
		var buf bytes.Buffer
		if err := png.Encode(&buf, resizeImage(img, v.Width)); err != nil {
			return 0, fmt.Errorf("encode %s: %w", v.Name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, v.Name), buf.Bytes(), 0o644); err != nil {
			return 0, fmt.Errorf("write %s: %w", v.Name, err)
		}
	}
	return len(logoVariants), nil
}

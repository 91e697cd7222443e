// Package compositor stacks rendered images into a single output image.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// ErrWidthMismatch is returned when stacked images differ in width.
var ErrWidthMismatch = errors.New("image widths differ")

// Stack places top above bottom. Both images must have the same width.
func Stack(top, bottom image.Image) (*image.RGBA, error) {
	tb, bb := top.Bounds(), bottom.Bounds()
	if tb.Dx() != bb.Dx() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrWidthMismatch, tb.Dx(), bb.Dx())
	}

	out := image.NewRGBA(image.Rect(0, 0, tb.Dx(), tb.Dy()+bb.Dy()))
	draw.Draw(out, image.Rect(0, 0, tb.Dx(), tb.Dy()), top, tb.Min, draw.Src)
	draw.Draw(out, image.Rect(0, tb.Dy(), bb.Dx(), tb.Dy()+bb.Dy()), bottom, bb.Min, draw.Src)

	return out, nil
}

// CombineFiles reads two PNG files, stacks them and writes the result to dst.
func CombineFiles(dst, top, bottom string) error {
	topImg, err := ReadPNG(top)
	if err != nil {
		return err
	}

	bottomImg, err := ReadPNG(bottom)
	if err != nil {
		return err
	}

	combined, err := Stack(topImg, bottomImg)
	if err != nil {
		return fmt.Errorf("failed to stack %s and %s: %w", top, bottom, err)
	}

	return WritePNG(dst, combined)
}

// ReadPNG decodes the PNG file at path.
func ReadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return img, nil
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}

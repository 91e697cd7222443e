package compositor

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	return img
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestStack(t *testing.T) {
	top := solid(8, 3, red)
	bottom := solid(8, 5, blue)

	out, err := Stack(top, bottom)
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}

	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 8 {
		t.Fatalf("size = %v, want 8x8", out.Bounds().Size())
	}

	for y := 0; y < 8; y++ {
		want := blue
		if y < 3 {
			want = red
		}

		for x := 0; x < 8; x++ {
			if got := out.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestStack_OffsetBounds(t *testing.T) {
	// Sub-images keep their original coordinates; Stack must not care.
	top := solid(10, 10, red).SubImage(image.Rect(2, 2, 6, 4))
	bottom := solid(4, 1, blue)

	out, err := Stack(top, bottom)
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}

	if out.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("bounds = %v, want (0,0)-(4,3)", out.Bounds())
	}

	if out.RGBAAt(0, 0) != red || out.RGBAAt(3, 2) != blue {
		t.Error("pixels not copied from offset source")
	}
}

func TestStack_WidthMismatch(t *testing.T) {
	out, err := Stack(solid(8, 3, red), solid(7, 3, blue))
	if !errors.Is(err, ErrWidthMismatch) {
		t.Fatalf("Expected ErrWidthMismatch, got %v", err)
	}

	if out != nil {
		t.Error("Expected nil image on mismatch")
	}
}

func TestCombineFiles(t *testing.T) {
	dir := t.TempDir()
	topPath := filepath.Join(dir, "1.png")
	bottomPath := filepath.Join(dir, "2.png")
	outPath := filepath.Join(dir, "out", "2021.png")

	if err := WritePNG(topPath, solid(6, 2, red)); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	if err := WritePNG(bottomPath, solid(6, 4, blue)); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	if err := CombineFiles(outPath, topPath, bottomPath); err != nil {
		t.Fatalf("CombineFiles failed: %v", err)
	}

	img, err := ReadPNG(outPath)
	if err != nil {
		t.Fatalf("ReadPNG failed: %v", err)
	}

	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 6 {
		t.Errorf("size = %v, want 6x6", img.Bounds().Size())
	}
}

func TestCombineFiles_Errors(t *testing.T) {
	dir := t.TempDir()
	narrow := filepath.Join(dir, "narrow.png")
	wide := filepath.Join(dir, "wide.png")

	if err := WritePNG(narrow, solid(2, 2, red)); err != nil {
		t.Fatal(err)
	}

	if err := WritePNG(wide, solid(3, 2, red)); err != nil {
		t.Fatal(err)
	}

	if err := CombineFiles(filepath.Join(dir, "x.png"), narrow, wide); !errors.Is(err, ErrWidthMismatch) {
		t.Errorf("Expected ErrWidthMismatch, got %v", err)
	}

	if err := CombineFiles(filepath.Join(dir, "x.png"), filepath.Join(dir, "missing.png"), wide); err == nil {
		t.Error("Expected error for missing input")
	}
}

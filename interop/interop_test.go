// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package interop

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/texel"
)

func rgba8(t *testing.T) texel.Format {
	t.Helper()
	f, err := texel.FormatFor(texel.PixelFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("FormatFor() error = %v", err)
	}
	return f
}

func TestWrapRGBA(t *testing.T) {
	format := rgba8(t)
	// Rows aligned to 8 bytes: 3 pixels of 4 bytes pad to 16.
	storage := texel.PixelStorage{Alignment: 8}
	size := texel.Size2(3, 2)
	data := make([]byte, storage.DataSize(format.PixelSize, size))

	img, err := texel.NewImage(2, storage, format, size, data, 0)
	if err != nil {
		t.Fatalf("NewImage() error = %v", err)
	}

	wrapped, err := WrapRGBA(img.MutableView())
	if err != nil {
		t.Fatalf("WrapRGBA() error = %v", err)
	}
	if wrapped.Stride != 16 {
		t.Errorf("Stride = %d, want 16", wrapped.Stride)
	}
	if wrapped.Rect.Dx() != 3 || wrapped.Rect.Dy() != 2 {
		t.Errorf("Rect = %v, want 3x2", wrapped.Rect)
	}

	// Writes through the wrapper land in the texel buffer, including
	// the row padding offset.
	wrapped.SetRGBA(1, 1, color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff})
	if got := img.Pixels().At(1, 1); got[0] != 0xaa || got[3] != 0xff {
		t.Errorf("At(1, 1) = %v, want the written pixel", got)
	}
}

func TestWrapRGBA_Errors(t *testing.T) {
	format := rgba8(t)

	t.Run("wrong dimensionality", func(t *testing.T) {
		v, err := texel.NewImageView(1, texel.PixelStorage{Alignment: 1}, format, texel.Size1(4), make([]byte, 16), 0)
		if err != nil {
			t.Fatalf("NewImageView() error = %v", err)
		}
		if _, err := WrapRGBA(v); !errors.Is(err, ErrNot2D) {
			t.Errorf("WrapRGBA() error = %v, want %v", err, ErrNot2D)
		}
	})

	t.Run("wrong format", func(t *testing.T) {
		gray, err := texel.FormatFor(texel.PixelFormatR8Unorm)
		if err != nil {
			t.Fatalf("FormatFor() error = %v", err)
		}
		v, err := texel.NewImageView(2, texel.PixelStorage{Alignment: 1}, gray, texel.Size2(2, 2), make([]byte, 4), 0)
		if err != nil {
			t.Fatalf("NewImageView() error = %v", err)
		}
		if _, err := WrapRGBA(v); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("WrapRGBA() error = %v, want %v", err, ErrUnsupportedFormat)
		}
	})
}

func TestWrap_SkippedRowsUnbacked(t *testing.T) {
	// An ImageHeight below the Y skip excludes the skipped rows from the
	// minimum data size, so the view is valid but its addressed region
	// starts past the end of the data. Wrapping has to fail cleanly.
	storage := texel.PixelStorage{Alignment: 1, ImageHeight: 2, Skip: texel.Vec3{Y: 4}}

	t.Run("gray", func(t *testing.T) {
		gray, err := texel.FormatFor(texel.PixelFormatR8Unorm)
		if err != nil {
			t.Fatalf("FormatFor() error = %v", err)
		}
		size := texel.Size2(2, 2)
		v, err := texel.NewImageView(2, storage, gray, size, make([]byte, storage.DataSize(1, size)), 0)
		if err != nil {
			t.Fatalf("NewImageView() error = %v", err)
		}
		if _, err := WrapGray(v); !errors.Is(err, texel.ErrDataTooSmall) {
			t.Errorf("WrapGray() error = %v, want %v", err, texel.ErrDataTooSmall)
		}
	})

	t.Run("rgba", func(t *testing.T) {
		format := rgba8(t)
		size := texel.Size2(2, 2)
		v, err := texel.NewImageView(2, storage, format, size, make([]byte, storage.DataSize(4, size)), 0)
		if err != nil {
			t.Fatalf("NewImageView() error = %v", err)
		}
		if _, err := WrapRGBA(v); !errors.Is(err, texel.ErrDataTooSmall) {
			t.Errorf("WrapRGBA() error = %v, want %v", err, texel.ErrDataTooSmall)
		}
	})
}

func TestWrapGray(t *testing.T) {
	gray, err := texel.FormatFor(texel.PixelFormatR8Unorm)
	if err != nil {
		t.Fatalf("FormatFor() error = %v", err)
	}
	storage := texel.PixelStorage{Alignment: 4}
	size := texel.Size2(3, 2)
	data := make([]byte, storage.DataSize(1, size))
	for i := range data {
		data[i] = byte(i)
	}

	v, err := texel.NewImageView(2, storage, gray, size, data, 0)
	if err != nil {
		t.Fatalf("NewImageView() error = %v", err)
	}
	wrapped, err := WrapGray(v)
	if err != nil {
		t.Fatalf("WrapGray() error = %v", err)
	}
	if wrapped.Stride != 4 {
		t.Errorf("Stride = %d, want 4", wrapped.Stride)
	}
	if got := wrapped.GrayAt(2, 1).Y; got != 6 {
		t.Errorf("GrayAt(2, 1) = %d, want 6", got)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 0x10, A: 0xff})
	src.SetRGBA(1, 1, color.RGBA{B: 0x20, A: 0xff})

	img, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	if img.Size() != texel.Size2(2, 2) {
		t.Errorf("Size() = %v, want {2 2 1}", img.Size())
	}
	if got := img.Pixels().At(0, 0); got[0] != 0x10 || got[3] != 0xff {
		t.Errorf("At(0, 0) = %v, want the source pixel", got)
	}
	if got := img.Pixels().At(1, 1); got[2] != 0x20 {
		t.Errorf("At(1, 1) = %v, want the source pixel", got)
	}
}

func TestToImage(t *testing.T) {
	format := rgba8(t)
	storage := texel.PixelStorage{Alignment: 1}
	data := make([]byte, 16)
	data[0], data[3] = 0x55, 0xff

	v, err := texel.NewImageView(2, storage, format, texel.Size2(2, 2), data, 0)
	if err != nil {
		t.Fatalf("NewImageView() error = %v", err)
	}
	out, err := ToImage(v)
	if err != nil {
		t.Fatalf("ToImage() error = %v", err)
	}
	if got := out.RGBAAt(0, 0); got.R != 0x55 || got.A != 0xff {
		t.Errorf("RGBAAt(0, 0) = %v, want the source pixel", got)
	}

	// The copy does not alias the view.
	out.Pix[0] = 0
	if data[0] != 0x55 {
		t.Error("ToImage() aliases the source buffer")
	}
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 0x80, G: 0x40, A: 0xff})
		}
	}
	img, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}

	scaled, err := Scale(img.View(), texel.Size2(2, 2), nil)
	if err != nil {
		t.Fatalf("Scale() error = %v", err)
	}
	if scaled.Size() != texel.Size2(2, 2) {
		t.Errorf("Size() = %v, want {2 2 1}", scaled.Size())
	}
	// A uniform source stays uniform through any scaler.
	if got := scaled.Pixels().At(1, 1); got[0] != 0x80 || got[1] != 0x40 || got[3] != 0xff {
		t.Errorf("At(1, 1) = %v, want the uniform color", got)
	}
}

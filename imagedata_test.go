package texel

import (
	"errors"
	"strings"
	"testing"
)

func TestNewImageData(t *testing.T) {
	format := rgba8(t)
	d, err := NewImageData(2, PixelStorage{Alignment: 1}, format, Size2(2, 2), make([]byte, 16), 0)
	if err != nil {
		t.Fatalf("NewImageData() error = %v", err)
	}

	if d.IsCompressed() {
		t.Error("uncompressed instance reports compressed")
	}
	if d.DataFlags() != DataFlagOwned|DataFlagMutable {
		t.Errorf("DataFlags() = %v, want owned and mutable", d.DataFlags())
	}
	if d.Storage() != (PixelStorage{Alignment: 1}) || d.Format() != format {
		t.Error("storage or format does not round-trip")
	}
	if d.DataSize() != 16 {
		t.Errorf("DataSize() = %d, want 16", d.DataSize())
	}

	if _, err := NewImageData(2, PixelStorage{Alignment: 1}, format, Size2(2, 2), make([]byte, 8), 0); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("undersized NewImageData() error = %v, want %v", err, ErrDataTooSmall)
	}
}

func TestNewImageDataView(t *testing.T) {
	format := rgba8(t)
	data := make([]byte, 16)

	t.Run("owned flag rejected", func(t *testing.T) {
		_, err := NewImageDataView(2, PixelStorage{Alignment: 1}, format, Size2(2, 2), DataFlagOwned, data, 0)
		if !errors.Is(err, ErrViewDataOwned) {
			t.Errorf("NewImageDataView() error = %v, want %v", err, ErrViewDataOwned)
		}
	})

	t.Run("immutable view", func(t *testing.T) {
		d, err := NewImageDataView(2, PixelStorage{Alignment: 1}, format, Size2(2, 2), 0, data, 0)
		if err != nil {
			t.Fatalf("NewImageDataView() error = %v", err)
		}
		if _, err := d.MutableData(); !errors.Is(err, ErrDataImmutable) {
			t.Errorf("MutableData() error = %v, want %v", err, ErrDataImmutable)
		}
		if _, err := d.MutablePixels(); !errors.Is(err, ErrDataImmutable) {
			t.Errorf("MutablePixels() error = %v, want %v", err, ErrDataImmutable)
		}
		if d.View().IsMutable() {
			t.Error("View() of an immutable instance is mutable")
		}
	})

	t.Run("mutable view", func(t *testing.T) {
		d, err := NewImageDataView(2, PixelStorage{Alignment: 1}, format, Size2(2, 2), DataFlagMutable, data, 0)
		if err != nil {
			t.Fatalf("NewImageDataView() error = %v", err)
		}
		got, err := d.MutableData()
		if err != nil {
			t.Fatalf("MutableData() error = %v", err)
		}
		got[0] = 0x42
		if data[0] != 0x42 {
			t.Error("MutableData() does not alias the source buffer")
		}
		if !d.View().IsMutable() {
			t.Error("View() of a mutable instance is immutable")
		}
	})
}

func TestNewCompressedImageData(t *testing.T) {
	format := bc1(t)
	d, err := NewCompressedImageData(2, CompressedPixelStorage{}, format, Size2(8, 8), make([]byte, 32), 0)
	if err != nil {
		t.Fatalf("NewCompressedImageData() error = %v", err)
	}

	if !d.IsCompressed() {
		t.Error("compressed instance reports uncompressed")
	}
	if d.CompressedFormat() != format {
		t.Error("compressed format does not round-trip")
	}
	if d.DataSize() != 32 {
		t.Errorf("DataSize() = %d, want 32", d.DataSize())
	}
	cv := d.CompressedView()
	if !cv.IsMutable() || cv.Size() != Size2(8, 8) {
		t.Error("CompressedView() metadata mismatch")
	}

	if _, err := NewCompressedImageDataView(2, CompressedPixelStorage{}, format, Size2(8, 8), DataFlagOwned, make([]byte, 32), 0); !errors.Is(err, ErrViewDataOwned) {
		t.Errorf("NewCompressedImageDataView() error = %v, want %v", err, ErrViewDataOwned)
	}
}

func TestImageData_WrongShapePanics(t *testing.T) {
	format := rgba8(t)
	uncompressed, err := NewImageData(2, PixelStorage{Alignment: 1}, format, Size2(2, 2), make([]byte, 16), 0)
	if err != nil {
		t.Fatalf("NewImageData() error = %v", err)
	}
	compressed, err := NewCompressedImageData(2, CompressedPixelStorage{}, bc1(t), Size2(8, 8), make([]byte, 32), 0)
	if err != nil {
		t.Fatalf("NewCompressedImageData() error = %v", err)
	}

	tests := []struct {
		name string
		call func()
	}{
		{"Storage on compressed", func() { compressed.Storage() }},
		{"Format on compressed", func() { compressed.Format() }},
		{"Pixels on compressed", func() { compressed.Pixels() }},
		{"View on compressed", func() { compressed.View() }},
		{"CompressedStorage on uncompressed", func() { uncompressed.CompressedStorage() }},
		{"CompressedFormat on uncompressed", func() { uncompressed.CompressedFormat() }},
		{"CompressedView on uncompressed", func() { uncompressed.CompressedView() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("no panic")
				}
			}()
			tt.call()
		})
	}
}

func TestImageData_Release(t *testing.T) {
	format := rgba8(t)
	data := make([]byte, 16)
	d, err := NewImageData(2, PixelStorage{Alignment: 1}, format, Size2(2, 2), data, 0)
	if err != nil {
		t.Fatalf("NewImageData() error = %v", err)
	}

	released := d.Release()
	if &released[0] != &data[0] {
		t.Error("Release() returned a different buffer")
	}
	if d.Data() != nil || d.Size() != (Vec3{0, 0, 1}) {
		t.Error("released instance not in placeholder state")
	}
}

func TestImageData_String(t *testing.T) {
	format := rgba8(t)
	d, err := NewImageData(2, PixelStorage{Alignment: 1}, format, Size2(2, 2), make([]byte, 16), 0)
	if err != nil {
		t.Fatalf("NewImageData() error = %v", err)
	}
	if s := d.String(); !strings.Contains(s, "RGBA8Unorm") || !strings.Contains(s, "2x2x1") {
		t.Errorf("String() = %q", s)
	}
}

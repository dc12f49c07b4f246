// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpuimage

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

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

func indexedData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

const testUsage = gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst

func TestNewBufferImage(t *testing.T) {
	transfer := &MemoryTransfer{}
	format := rgba8(t)
	storage := texel.PixelStorage{Alignment: 1}

	data := indexedData(16)
	img, err := NewBufferImage(transfer, 2, storage, format, texel.Size2(2, 2), data, testUsage, 0)
	if err != nil {
		t.Fatalf("NewBufferImage() error = %v", err)
	}

	if img.Dimensions() != 2 || img.Size() != texel.Size2(2, 2) || img.Usage() != testUsage {
		t.Error("image metadata mismatch")
	}
	if img.OccupiedSize() != 16 || img.Buffer().Size() != 16 {
		t.Errorf("sizes = %d/%d, want 16/16", img.OccupiedSize(), img.Buffer().Size())
	}

	got, err := img.Data()
	if err != nil {
		t.Fatalf("Data() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("readback does not match the uploaded data")
	}

	if _, err := NewBufferImage(transfer, 2, storage, format, texel.Size2(2, 2), make([]byte, 8), testUsage, 0); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("undersized NewBufferImage() error = %v, want %v", err, ErrBufferTooSmall)
	}
	if _, err := NewBufferImage(nil, 2, storage, format, texel.Size2(2, 2), data, testUsage, 0); !errors.Is(err, ErrNilTransfer) {
		t.Errorf("nil transfer error = %v, want %v", err, ErrNilTransfer)
	}
}

func TestBufferImage_SetDataReusesAllocation(t *testing.T) {
	transfer := &MemoryTransfer{}
	format := rgba8(t)
	storage := texel.PixelStorage{Alignment: 1}

	img, err := NewBufferImage(transfer, 2, storage, format, texel.Size2(4, 4), make([]byte, 64), testUsage, 0)
	if err != nil {
		t.Fatalf("NewBufferImage() error = %v", err)
	}
	original := img.Buffer()

	t.Run("shrink keeps the buffer", func(t *testing.T) {
		if err := img.SetData(storage, format, texel.Size2(2, 2), make([]byte, 16)); err != nil {
			t.Fatalf("SetData() error = %v", err)
		}
		if img.Buffer() != original {
			t.Error("shrinking SetData() reallocated")
		}
		if img.OccupiedSize() != 16 {
			t.Errorf("OccupiedSize() = %d, want 16", img.OccupiedSize())
		}
	})

	t.Run("growth within occupied reuses", func(t *testing.T) {
		// 16 bytes are occupied; uploading 16 again reuses.
		if err := img.SetData(storage, format, texel.Size2(2, 2), indexedData(16)); err != nil {
			t.Fatalf("SetData() error = %v", err)
		}
		if img.Buffer() != original {
			t.Error("same-size SetData() reallocated")
		}
	})

	t.Run("growth past occupied reallocates", func(t *testing.T) {
		// 32 > 16 occupied bytes, so a new buffer is allocated even
		// though the old allocation would still fit.
		if err := img.SetData(storage, format, texel.Size2(4, 2), indexedData(32)); err != nil {
			t.Fatalf("SetData() error = %v", err)
		}
		if img.Buffer() == original {
			t.Error("growing SetData() did not reallocate")
		}
		if img.OccupiedSize() != 32 {
			t.Errorf("OccupiedSize() = %d, want 32", img.OccupiedSize())
		}
		got, err := img.Data()
		if err != nil {
			t.Fatalf("Data() error = %v", err)
		}
		if !bytes.Equal(got, indexedData(32)) {
			t.Error("readback does not match after reallocation")
		}
	})

	t.Run("nil data re-describes", func(t *testing.T) {
		if err := img.SetData(storage, format, texel.Size2(2, 4), nil); err != nil {
			t.Fatalf("SetData(nil) error = %v", err)
		}
		if img.Size() != texel.Size2(2, 4) || img.OccupiedSize() != 32 {
			t.Error("re-describe changed the occupied length")
		}
	})

	t.Run("nil data growth rejected", func(t *testing.T) {
		err := img.SetData(storage, format, texel.Size2(8, 8), nil)
		if !errors.Is(err, ErrBufferTooSmall) {
			t.Fatalf("SetData() error = %v, want %v", err, ErrBufferTooSmall)
		}
		if img.Size() != texel.Size2(2, 4) {
			t.Errorf("failed SetData() changed size to %v", img.Size())
		}
	})
}

func TestNewBufferImageFromBuffer(t *testing.T) {
	transfer := &MemoryTransfer{}
	format := rgba8(t)
	storage := texel.PixelStorage{Alignment: 1}

	buf, err := transfer.Allocate(64, testUsage)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	img, err := NewBufferImageFromBuffer(transfer, 2, storage, format, texel.Size2(4, 4), buf, testUsage, 0)
	if err != nil {
		t.Fatalf("NewBufferImageFromBuffer() error = %v", err)
	}

	// Contents are unspecified, so re-describing without data fails.
	if err := img.SetData(storage, format, texel.Size2(2, 2), nil); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("SetData(nil) on adopted buffer error = %v, want %v", err, ErrBufferTooSmall)
	}

	// The first data-carrying upload replaces the adopted buffer.
	if err := img.SetData(storage, format, texel.Size2(2, 2), make([]byte, 16)); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if img.Buffer() == buf {
		t.Error("first upload into an adopted buffer did not reallocate")
	}

	t.Run("undersized buffer rejected", func(t *testing.T) {
		small, err := transfer.Allocate(8, testUsage)
		if err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
		if _, err := NewBufferImageFromBuffer(transfer, 2, storage, format, texel.Size2(4, 4), small, testUsage, 0); !errors.Is(err, ErrBufferTooSmall) {
			t.Errorf("NewBufferImageFromBuffer() error = %v, want %v", err, ErrBufferTooSmall)
		}
	})
}

func TestBufferImage_Placeholder(t *testing.T) {
	transfer := &MemoryTransfer{}
	format := rgba8(t)
	storage := texel.PixelStorage{Alignment: 1}

	img, err := NewBufferImagePlaceholder(transfer, 2, storage, format, testUsage)
	if err != nil {
		t.Fatalf("NewBufferImagePlaceholder() error = %v", err)
	}
	if img.Buffer() != nil || img.Size() != (texel.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Error("placeholder not empty")
	}
	data, err := img.Data()
	if err != nil || data != nil {
		t.Errorf("placeholder Data() = %v, %v, want nil, nil", data, err)
	}

	// The first SetData allocates.
	if err := img.SetData(storage, format, texel.Size2(2, 2), indexedData(16)); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if img.Buffer() == nil || img.OccupiedSize() != 16 {
		t.Error("placeholder fill did not allocate")
	}
}

func TestBufferImage_Release(t *testing.T) {
	transfer := &MemoryTransfer{}
	format := rgba8(t)
	img, err := NewBufferImage(transfer, 2, texel.PixelStorage{Alignment: 1}, format, texel.Size2(2, 2), make([]byte, 16), testUsage, 0)
	if err != nil {
		t.Fatalf("NewBufferImage() error = %v", err)
	}

	buf := img.Release()
	if buf == nil {
		t.Fatal("Release() returned nil")
	}
	defer buf.Destroy()

	if img.Buffer() != nil || img.OccupiedSize() != 0 || img.Size() != (texel.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Error("released image not in placeholder state")
	}
	// The released handle stays usable by the caller.
	if err := transfer.Upload(buf, 0, make([]byte, 16)); err != nil {
		t.Errorf("Upload() into released buffer error = %v", err)
	}
}

func TestBufferImage_Destroy(t *testing.T) {
	transfer := &MemoryTransfer{}
	format := rgba8(t)
	img, err := NewBufferImage(transfer, 2, texel.PixelStorage{Alignment: 1}, format, texel.Size2(2, 2), make([]byte, 16), testUsage, 0)
	if err != nil {
		t.Fatalf("NewBufferImage() error = %v", err)
	}
	buf := img.Buffer()

	img.Destroy()
	if img.Buffer() != nil {
		t.Error("Destroy() kept the buffer handle")
	}
	if err := transfer.Upload(buf, 0, make([]byte, 1)); !errors.Is(err, ErrBufferDestroyed) {
		t.Errorf("Upload() into destroyed buffer error = %v, want %v", err, ErrBufferDestroyed)
	}
	// Destroying again is a no-op.
	img.Destroy()
}

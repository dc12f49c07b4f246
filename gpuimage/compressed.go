// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpuimage

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/texel"
)

// CompressedBufferImage is a block-compressed image whose data lives in
// a buffer managed by a Transfer backend. It mirrors BufferImage with
// block-granular layout semantics.
type CompressedBufferImage struct {
	transfer Transfer
	dims     int
	storage  texel.CompressedPixelStorage
	format   texel.CompressedFormat
	size     texel.Vec3
	flags    texel.ImageFlags
	usage    gputypes.BufferUsage
	buf      Buffer
	dataSize int
}

// NewCompressedBufferImage allocates a buffer through the transfer
// backend and uploads data into it. Block parameters set on the storage
// have to match the format.
func NewCompressedBufferImage(transfer Transfer, dims int, storage texel.CompressedPixelStorage, format texel.CompressedFormat, size texel.Vec3, data []byte, usage gputypes.BufferUsage, flags texel.ImageFlags) (*CompressedBufferImage, error) {
	if transfer == nil {
		return nil, ErrNilTransfer
	}
	required, err := texel.CompressedImageDataSize(dims, storage, format, size, flags)
	if err != nil {
		return nil, err
	}
	if len(data) < required {
		return nil, fmt.Errorf("%w: needs %d bytes, got %d", ErrBufferTooSmall, required, len(data))
	}
	buf, err := transfer.Allocate(len(data), usage)
	if err != nil {
		return nil, err
	}
	if err := transfer.Upload(buf, 0, data); err != nil {
		buf.Destroy()
		return nil, err
	}
	texel.Logger().Debug("gpuimage: compressed buffer image allocated",
		"size", size, "bytes", len(data))
	return &CompressedBufferImage{
		transfer: transfer,
		dims:     dims,
		storage:  storage,
		format:   format,
		size:     size,
		flags:    flags,
		usage:    usage,
		buf:      buf,
		dataSize: len(data),
	}, nil
}

// NewCompressedBufferImageFromBuffer wraps an existing buffer handle,
// taking ownership of it. The occupied length is recorded as zero, with
// the same consequences as for NewBufferImageFromBuffer.
func NewCompressedBufferImageFromBuffer(transfer Transfer, dims int, storage texel.CompressedPixelStorage, format texel.CompressedFormat, size texel.Vec3, buf Buffer, usage gputypes.BufferUsage, flags texel.ImageFlags) (*CompressedBufferImage, error) {
	if transfer == nil {
		return nil, ErrNilTransfer
	}
	if buf == nil {
		return nil, ErrNilBuffer
	}
	required, err := texel.CompressedImageDataSize(dims, storage, format, size, flags)
	if err != nil {
		return nil, err
	}
	if buf.Size() < required {
		return nil, fmt.Errorf("%w: needs %d bytes, buffer holds %d", ErrBufferTooSmall, required, buf.Size())
	}
	return &CompressedBufferImage{
		transfer: transfer,
		dims:     dims,
		storage:  storage,
		format:   format,
		size:     size,
		flags:    flags,
		usage:    usage,
		buf:      buf,
	}, nil
}

// NewCompressedBufferImagePlaceholder creates a zero-sized compressed
// buffer image holding only the storage parameters, format and usage.
func NewCompressedBufferImagePlaceholder(transfer Transfer, dims int, storage texel.CompressedPixelStorage, format texel.CompressedFormat, usage gputypes.BufferUsage) (*CompressedBufferImage, error) {
	if transfer == nil {
		return nil, ErrNilTransfer
	}
	if _, err := texel.CompressedImageDataSize(dims, storage, format, placeholderSize(dims), 0); err != nil {
		return nil, err
	}
	return &CompressedBufferImage{
		transfer: transfer,
		dims:     dims,
		storage:  storage,
		format:   format,
		size:     placeholderSize(dims),
		usage:    usage,
	}, nil
}

// Dimensions returns the image dimensionality, 1 to 3.
func (i *CompressedBufferImage) Dimensions() int { return i.dims }

// Storage returns the compressed pixel storage parameters.
func (i *CompressedBufferImage) Storage() texel.CompressedPixelStorage { return i.storage }

// Format returns the resolved compressed format.
func (i *CompressedBufferImage) Format() texel.CompressedFormat { return i.format }

// Size returns the image size in pixels.
func (i *CompressedBufferImage) Size() texel.Vec3 { return i.size }

// Flags returns the layout flags.
func (i *CompressedBufferImage) Flags() texel.ImageFlags { return i.flags }

// Usage returns the buffer usage the image allocates with.
func (i *CompressedBufferImage) Usage() gputypes.BufferUsage { return i.usage }

// Buffer returns the underlying buffer handle, nil for placeholders.
// The image keeps ownership.
func (i *CompressedBufferImage) Buffer() Buffer { return i.buf }

// OccupiedSize returns the occupied byte length of the buffer, zero
// when the contents are unspecified.
func (i *CompressedBufferImage) OccupiedSize() int { return i.dataSize }

// DataProperties returns the block-granular layout of the image, with
// storage placeholders resolved from the format.
func (i *CompressedBufferImage) DataProperties() texel.BlockProperties {
	return i.storage.Resolved(i.format).DataProperties(i.size)
}

// DataSize returns the minimum byte length a buffer has to have to hold
// this image.
func (i *CompressedBufferImage) DataSize() int {
	return i.storage.Resolved(i.format).DataSize(i.size)
}

// SetData replaces the storage parameters, format, size and data, with
// the same allocation-reuse and nil-data semantics as
// BufferImage.SetData. On error the image is left unchanged.
func (i *CompressedBufferImage) SetData(storage texel.CompressedPixelStorage, format texel.CompressedFormat, size texel.Vec3, data []byte) error {
	required, err := texel.CompressedImageDataSize(i.dims, storage, format, size, i.flags)
	if err != nil {
		return err
	}
	if data == nil {
		if i.dataSize < required {
			return fmt.Errorf("%w: needs %d bytes, buffer occupies %d", ErrBufferTooSmall, required, i.dataSize)
		}
	} else {
		if len(data) < required {
			return fmt.Errorf("%w: needs %d bytes, got %d", ErrBufferTooSmall, required, len(data))
		}
		if err := i.upload(data); err != nil {
			return err
		}
	}

	i.storage = storage
	i.format = format
	i.size = size
	return nil
}

func (i *CompressedBufferImage) upload(data []byte) error {
	if i.dataSize == 0 || len(data) > i.dataSize {
		buf, err := i.transfer.Allocate(len(data), i.usage)
		if err != nil {
			return err
		}
		if err := i.transfer.Upload(buf, 0, data); err != nil {
			buf.Destroy()
			return err
		}
		texel.Logger().Debug("gpuimage: compressed buffer image reallocated",
			"occupied", i.dataSize, "bytes", len(data))
		if i.buf != nil {
			i.buf.Destroy()
		}
		i.buf = buf
	} else {
		if err := i.transfer.Upload(i.buf, 0, data); err != nil {
			return err
		}
		texel.Logger().Debug("gpuimage: compressed buffer image reused",
			"occupied", i.dataSize, "bytes", len(data))
	}
	i.dataSize = len(data)
	return nil
}

// Data reads the occupied bytes back into host memory.
func (i *CompressedBufferImage) Data() ([]byte, error) {
	if i.buf == nil {
		return nil, nil
	}
	out := make([]byte, i.dataSize)
	if err := i.transfer.Read(i.buf, 0, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Release transfers ownership of the buffer handle to the caller and
// resets the image to the placeholder state.
func (i *CompressedBufferImage) Release() Buffer {
	buf := i.buf
	i.buf = nil
	i.dataSize = 0
	i.size = placeholderSize(i.dims)
	return buf
}

// Destroy destroys the underlying buffer and resets the image to the
// placeholder state. It is a no-op for placeholders.
func (i *CompressedBufferImage) Destroy() {
	if i.buf != nil {
		i.buf.Destroy()
	}
	i.buf = nil
	i.dataSize = 0
	i.size = placeholderSize(i.dims)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpuimage

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/texel"
)

// Container errors.
var (
	// ErrNilTransfer is returned when a container is created without a
	// transfer backend.
	ErrNilTransfer = errors.New("gpuimage: transfer backend is nil")

	// ErrBufferTooSmall is returned when an adopted or retained buffer
	// cannot hold the described image.
	ErrBufferTooSmall = errors.New("gpuimage: buffer too small for the described image")
)

// BufferImage is an uncompressed image whose pixel data lives in a
// buffer managed by a Transfer backend, typically GPU memory. It carries
// the same layout metadata as texel.Image but instead of a byte slice it
// owns an opaque Buffer handle.
//
// The container tracks the occupied byte length separately from the
// buffer's allocated length. SetData reuses the existing allocation
// whenever the new data fits and reallocates only when it has to grow,
// so repeated uploads of same-sized or shrinking images never touch the
// allocator.
type BufferImage struct {
	transfer Transfer
	dims     int
	storage  texel.PixelStorage
	format   texel.Format
	size     texel.Vec3
	flags    texel.ImageFlags
	usage    gputypes.BufferUsage
	buf      Buffer
	// dataSize is the occupied byte length. Zero means the buffer
	// contents are unspecified and the next SetData has to reallocate.
	dataSize int
}

// NewBufferImage allocates a buffer through the transfer backend and
// uploads data into it. The data length has to be at least the minimum
// the storage parameters compute for the format and size.
func NewBufferImage(transfer Transfer, dims int, storage texel.PixelStorage, format texel.Format, size texel.Vec3, data []byte, usage gputypes.BufferUsage, flags texel.ImageFlags) (*BufferImage, error) {
	if transfer == nil {
		return nil, ErrNilTransfer
	}
	required, err := texel.ImageDataSize(dims, storage, format, size, flags)
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
	texel.Logger().Debug("gpuimage: buffer image allocated",
		"size", size, "bytes", len(data))
	return &BufferImage{
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

// NewBufferImageFromBuffer wraps an existing buffer handle, taking
// ownership of it. The buffer's allocated length has to cover the
// described image.
//
// The occupied length is recorded as zero since nothing is known about
// the buffer contents beyond the described layout, so a later
// re-describing SetData with nil data is rejected and a data-carrying
// one reallocates.
func NewBufferImageFromBuffer(transfer Transfer, dims int, storage texel.PixelStorage, format texel.Format, size texel.Vec3, buf Buffer, usage gputypes.BufferUsage, flags texel.ImageFlags) (*BufferImage, error) {
	if transfer == nil {
		return nil, ErrNilTransfer
	}
	if buf == nil {
		return nil, ErrNilBuffer
	}
	required, err := texel.ImageDataSize(dims, storage, format, size, flags)
	if err != nil {
		return nil, err
	}
	if buf.Size() < required {
		return nil, fmt.Errorf("%w: needs %d bytes, buffer holds %d", ErrBufferTooSmall, required, buf.Size())
	}
	return &BufferImage{
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

// NewBufferImagePlaceholder creates a zero-sized buffer image holding
// only the storage parameters, format and usage. No buffer is allocated
// until SetData.
func NewBufferImagePlaceholder(transfer Transfer, dims int, storage texel.PixelStorage, format texel.Format, usage gputypes.BufferUsage) (*BufferImage, error) {
	if transfer == nil {
		return nil, ErrNilTransfer
	}
	if _, err := texel.ImageDataSize(dims, storage, format, placeholderSize(dims), 0); err != nil {
		return nil, err
	}
	return &BufferImage{
		transfer: transfer,
		dims:     dims,
		storage:  storage,
		format:   format,
		size:     placeholderSize(dims),
		usage:    usage,
	}, nil
}

// Dimensions returns the image dimensionality, 1 to 3.
func (i *BufferImage) Dimensions() int { return i.dims }

// Storage returns the pixel storage parameters.
func (i *BufferImage) Storage() texel.PixelStorage { return i.storage }

// Format returns the resolved pixel format.
func (i *BufferImage) Format() texel.Format { return i.format }

// Size returns the image size in pixels.
func (i *BufferImage) Size() texel.Vec3 { return i.size }

// Flags returns the layout flags.
func (i *BufferImage) Flags() texel.ImageFlags { return i.flags }

// Usage returns the buffer usage the image allocates with.
func (i *BufferImage) Usage() gputypes.BufferUsage { return i.usage }

// Buffer returns the underlying buffer handle, nil for placeholders.
// The image keeps ownership.
func (i *BufferImage) Buffer() Buffer { return i.buf }

// OccupiedSize returns the occupied byte length of the buffer, which
// may be smaller than the buffer's allocated length after a shrinking
// SetData. It is zero when the contents are unspecified.
func (i *BufferImage) OccupiedSize() int { return i.dataSize }

// DataProperties returns the byte layout of the image under its current
// storage parameters and size.
func (i *BufferImage) DataProperties() texel.DataProperties {
	return i.storage.DataProperties(i.format.PixelSize, i.size)
}

// DataSize returns the minimum byte length a buffer has to have to hold
// this image.
func (i *BufferImage) DataSize() int {
	return i.storage.DataSize(i.format.PixelSize, i.size)
}

// SetData replaces the storage parameters, format, size and data,
// uploading data into the buffer. The existing allocation is reused
// when the new data fits; only growth reallocates.
//
// Passing nil data keeps the buffer contents and only re-describes them
// with the new layout. The occupied length then has to cover the new
// layout, which in particular rejects re-describing a buffer adopted
// through NewBufferImageFromBuffer before any upload specified its
// contents.
//
// On error the image is left unchanged.
func (i *BufferImage) SetData(storage texel.PixelStorage, format texel.Format, size texel.Vec3, data []byte) error {
	required, err := texel.ImageDataSize(i.dims, storage, format, size, i.flags)
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

// upload puts data into the buffer, reallocating when it does not fit
// the occupied length. A zero occupied length always reallocates.
func (i *BufferImage) upload(data []byte) error {
	if i.dataSize == 0 || len(data) > i.dataSize {
		buf, err := i.transfer.Allocate(len(data), i.usage)
		if err != nil {
			return err
		}
		if err := i.transfer.Upload(buf, 0, data); err != nil {
			buf.Destroy()
			return err
		}
		texel.Logger().Debug("gpuimage: buffer image reallocated",
			"occupied", i.dataSize, "bytes", len(data))
		if i.buf != nil {
			i.buf.Destroy()
		}
		i.buf = buf
	} else {
		if err := i.transfer.Upload(i.buf, 0, data); err != nil {
			return err
		}
		texel.Logger().Debug("gpuimage: buffer image reused",
			"occupied", i.dataSize, "bytes", len(data))
	}
	i.dataSize = len(data)
	return nil
}

// Data reads the occupied bytes back into host memory. Reading back is
// a blocking round trip through the transfer backend and is meant for
// debugging and tests rather than hot paths.
func (i *BufferImage) Data() ([]byte, error) {
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
// resets the image to the placeholder state. The caller is responsible
// for destroying the returned buffer; it is nil for placeholders.
func (i *BufferImage) Release() Buffer {
	buf := i.buf
	i.buf = nil
	i.dataSize = 0
	i.size = placeholderSize(i.dims)
	return buf
}

// Destroy destroys the underlying buffer and resets the image to the
// placeholder state. It is a no-op for placeholders.
func (i *BufferImage) Destroy() {
	if i.buf != nil {
		i.buf.Destroy()
	}
	i.buf = nil
	i.dataSize = 0
	i.size = placeholderSize(i.dims)
}

// placeholderSize is the size of an empty image: zero up to the image
// dimensionality, 1 past it.
func placeholderSize(dims int) texel.Vec3 {
	s := texel.Vec3{X: 0, Y: 1, Z: 1}
	if dims >= 2 {
		s.Y = 0
	}
	if dims >= 3 {
		s.Z = 0
	}
	return s
}

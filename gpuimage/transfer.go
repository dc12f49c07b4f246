// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpuimage

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Transfer errors shared by implementations.
var (
	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = errors.New("gpuimage: buffer has been destroyed")

	// ErrNilBuffer is returned when a transfer operation is given a nil
	// buffer.
	ErrNilBuffer = errors.New("gpuimage: buffer is nil")

	// ErrInvalidRange is returned when an upload or read range falls
	// outside the buffer.
	ErrInvalidRange = errors.New("gpuimage: transfer range out of bounds")

	// ErrForeignBuffer is returned when a buffer handle belongs to a
	// different Transfer implementation.
	ErrForeignBuffer = errors.New("gpuimage: buffer belongs to a different transfer backend")
)

// Buffer is an opaque handle to a byte buffer managed by a Transfer
// backend, typically GPU-resident. Handles are exclusively owned by
// their container and move between owners; they are never copied.
type Buffer interface {
	// Size returns the allocated byte length.
	Size() int

	// Destroy releases the underlying allocation. The handle must not
	// be used afterwards.
	Destroy()
}

// Transfer performs byte transfers between host memory and Buffer
// handles. All operations are synchronous and blocking; the containers
// in this package supply byte offsets and lengths computed by the texel
// layout engine and otherwise treat the handles as opaque.
type Transfer interface {
	// Allocate creates a buffer of the given byte length for the given
	// usage.
	Allocate(size int, usage gputypes.BufferUsage) (Buffer, error)

	// Upload copies src into dst starting at the byte offset.
	Upload(dst Buffer, offset int, src []byte) error

	// Read copies len(dst) bytes out of src starting at the byte offset.
	Read(src Buffer, offset int, dst []byte) error
}

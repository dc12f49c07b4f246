// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpuimage

import (
	"github.com/gogpu/gputypes"
)

// MemoryTransfer is a Transfer backed by host memory. It serves as the
// software fallback and as the backend of choice in tests: buffers are
// plain byte slices and all transfers are memcpys.
//
// The zero value is ready to use.
type MemoryTransfer struct{}

// memoryBuffer is a host-memory Buffer.
type memoryBuffer struct {
	data      []byte
	usage     gputypes.BufferUsage
	destroyed bool
}

// Size returns the allocated byte length.
func (b *memoryBuffer) Size() int { return len(b.data) }

// Destroy drops the backing slice.
func (b *memoryBuffer) Destroy() {
	b.data = nil
	b.destroyed = true
}

// Allocate implements Transfer.
func (*MemoryTransfer) Allocate(size int, usage gputypes.BufferUsage) (Buffer, error) {
	if size < 0 {
		return nil, ErrInvalidRange
	}
	return &memoryBuffer{data: make([]byte, size), usage: usage}, nil
}

// Upload implements Transfer.
func (*MemoryTransfer) Upload(dst Buffer, offset int, src []byte) error {
	b, err := memoryBufferOf(dst)
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(src) > len(b.data) {
		return ErrInvalidRange
	}
	copy(b.data[offset:], src)
	return nil
}

// Read implements Transfer.
func (*MemoryTransfer) Read(src Buffer, offset int, dst []byte) error {
	b, err := memoryBufferOf(src)
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(dst) > len(b.data) {
		return ErrInvalidRange
	}
	copy(dst, b.data[offset:])
	return nil
}

// memoryBufferOf validates that a handle belongs to this backend and is
// still alive.
func memoryBufferOf(buf Buffer) (*memoryBuffer, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	b, ok := buf.(*memoryBuffer)
	if !ok {
		return nil, ErrForeignBuffer
	}
	if b.destroyed {
		return nil, ErrBufferDestroyed
	}
	return b, nil
}

var _ Transfer = (*MemoryTransfer)(nil)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgputransfer implements the gpuimage.Transfer interface on
// top of gogpu/wgpu's hardware abstraction layer.
//
// Uploads go through the queue's write path. Readback copies the
// source into a MapRead staging buffer through a command encoder,
// waits on a fence and reads the staging buffer back, since device
// buffers are not directly host-visible.
package wgputransfer

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texel"
	"github.com/gogpu/texel/gpuimage"
)

// Transfer errors.
var (
	// ErrNilDevice is returned when creating a Transfer without a device
	// or queue.
	ErrNilDevice = errors.New("wgputransfer: device or queue is nil")

	// ErrGPUTimeout is returned when the readback fence does not signal
	// within the wait window.
	ErrGPUTimeout = errors.New("wgputransfer: timed out waiting for the GPU")
)

// gpuWaitTimeout bounds the fence wait during readback.
const gpuWaitTimeout = 5 * time.Second

// Transfer moves bytes between host memory and wgpu device buffers.
// All operations are synchronous; readback blocks on a fence.
type Transfer struct {
	device hal.Device
	queue  hal.Queue
}

// New creates a Transfer over the given device and queue.
func New(device hal.Device, queue hal.Queue) (*Transfer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &Transfer{device: device, queue: queue}, nil
}

// wgpuBuffer is a device buffer handle.
type wgpuBuffer struct {
	device    hal.Device
	buf       hal.Buffer
	size      int
	destroyed bool
}

// Size returns the allocated byte length.
func (b *wgpuBuffer) Size() int { return b.size }

// Destroy releases the device buffer. Idempotent.
func (b *wgpuBuffer) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.device.DestroyBuffer(b.buf)
	b.buf = nil
}

// Allocate implements gpuimage.Transfer. The requested usage is
// extended with the copy usages the transfer paths need.
func (t *Transfer) Allocate(size int, usage gputypes.BufferUsage) (gpuimage.Buffer, error) {
	if size < 0 {
		return nil, gpuimage.ErrInvalidRange
	}
	buf, err := t.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gpuimage",
		Size:  uint64(size),
		Usage: usage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgputransfer: create buffer: %w", err)
	}
	texel.Logger().Debug("wgputransfer: buffer allocated", "bytes", size)
	return &wgpuBuffer{device: t.device, buf: buf, size: size}, nil
}

// Upload implements gpuimage.Transfer.
func (t *Transfer) Upload(dst gpuimage.Buffer, offset int, src []byte) error {
	b, err := t.bufferOf(dst)
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(src) > b.size {
		return gpuimage.ErrInvalidRange
	}
	if len(src) == 0 {
		return nil
	}
	t.queue.WriteBuffer(b.buf, uint64(offset), src)
	return nil
}

// Read implements gpuimage.Transfer. The source range is copied into a
// freshly created MapRead staging buffer on the GPU timeline, the copy
// is fenced and the staging buffer is read back.
func (t *Transfer) Read(src gpuimage.Buffer, offset int, dst []byte) error {
	b, err := t.bufferOf(src)
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(dst) > b.size {
		return gpuimage.ErrInvalidRange
	}
	if len(dst) == 0 {
		return nil
	}

	staging, err := t.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gpuimage_readback",
		Size:  uint64(len(dst)),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgputransfer: create staging buffer: %w", err)
	}
	defer t.device.DestroyBuffer(staging)

	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "gpuimage_readback",
	})
	if err != nil {
		return fmt.Errorf("wgputransfer: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gpuimage_readback"); err != nil {
		return fmt.Errorf("wgputransfer: begin encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(b.buf, staging, []hal.BufferCopy{{
		SrcOffset: uint64(offset),
		DstOffset: 0,
		Size:      uint64(len(dst)),
	}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgputransfer: end encoding: %w", err)
	}
	defer t.device.FreeCommandBuffer(cmdBuf)

	fence, err := t.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgputransfer: create fence: %w", err)
	}
	defer t.device.DestroyFence(fence)

	if err := t.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgputransfer: submit: %w", err)
	}
	ok, err := t.device.Wait(fence, 1, gpuWaitTimeout)
	if err != nil {
		return fmt.Errorf("wgputransfer: wait for GPU: %w", err)
	}
	if !ok {
		return ErrGPUTimeout
	}

	if err := t.queue.ReadBuffer(staging, 0, dst); err != nil {
		return fmt.Errorf("wgputransfer: readback: %w", err)
	}
	return nil
}

// bufferOf validates that a handle belongs to this backend and is
// still alive.
func (t *Transfer) bufferOf(buf gpuimage.Buffer) (*wgpuBuffer, error) {
	if buf == nil {
		return nil, gpuimage.ErrNilBuffer
	}
	b, ok := buf.(*wgpuBuffer)
	if !ok {
		return nil, gpuimage.ErrForeignBuffer
	}
	if b.destroyed {
		return nil, gpuimage.ErrBufferDestroyed
	}
	return b, nil
}

var _ gpuimage.Transfer = (*Transfer)(nil)

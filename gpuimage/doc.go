// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpuimage provides GPU-buffer-backed image containers.
//
// BufferImage and CompressedBufferImage carry the same pixel storage,
// format, size and flag metadata as the CPU-side texel containers, but
// their bytes live in an opaque GPU buffer reached through the Transfer
// interface. The containers track the currently allocated byte length
// separately from the logical image layout, so re-describing an image
// with a smaller or equal layout reuses the existing allocation and
// only a growing upload reallocates.
//
// MemoryTransfer is a host-memory Transfer implementation used for
// tests and as a CPU fallback; the wgputransfer sub-package provides the
// real GPU path on top of gogpu/wgpu.
package gpuimage

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpuformat bridges texel format and size types to the
// gputypes vocabulary used by gogpu GPU backends.
//
// Texture formats known to both sides translate to the corresponding
// generic texel format. Formats texel has no layout knowledge of are
// wrapped as implementation-specific identifiers so they can still
// travel through containers when the caller supplies the pixel size.
package gpuformat

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/texel"
)

// Conversion errors.
var (
	// ErrUnsupportedFormat is returned when a texture format has no
	// layout metadata on either side of the conversion.
	ErrUnsupportedFormat = errors.New("gpuformat: unsupported texture format")

	// ErrNotWrapped is returned when converting a generic texel format
	// back to a texture format it did not originate from.
	ErrNotWrapped = errors.New("gpuformat: format does not wrap a texture format")

	// ErrExtentOverflow is returned when a size does not fit the uint32
	// extent components.
	ErrExtentOverflow = errors.New("gpuformat: size does not fit an extent")
)

// pixelFormats maps texture formats with a generic texel counterpart.
var pixelFormats = map[gputypes.TextureFormat]texel.PixelFormat{
	gputypes.TextureFormatR8Unorm:    texel.PixelFormatR8Unorm,
	gputypes.TextureFormatRGBA8Unorm: texel.PixelFormatRGBA8Unorm,
	gputypes.TextureFormatBGRA8Unorm: texel.PixelFormatBGRA8Unorm,
}

// pixelSizes supplies byte sizes for texture formats that have no
// generic texel counterpart but still a well-defined pixel footprint.
var pixelSizes = map[gputypes.TextureFormat]int{
	gputypes.TextureFormatDepth24PlusStencil8: 4,
}

// PixelFormat translates a texture format into a texel pixel format.
// Formats without a generic counterpart are wrapped as
// implementation-specific, preserving the original identifier.
func PixelFormat(f gputypes.TextureFormat) texel.PixelFormat {
	if id, ok := pixelFormats[f]; ok {
		return id
	}
	return texel.PixelFormatWrap(uint32(f))
}

// TextureFormat translates a texel pixel format back into a texture
// format. Wrapped formats unwrap to their original identifier; generic
// formats map through the known table.
func TextureFormat(f texel.PixelFormat) (gputypes.TextureFormat, error) {
	if f.IsImplementationSpecific() {
		return gputypes.TextureFormat(f.Unwrap()), nil
	}
	for tf, id := range pixelFormats {
		if id == f {
			return tf, nil
		}
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: %v", ErrNotWrapped, f)
}

// Format resolves a texture format into a fully resolved texel format
// with the pixel size filled in. Formats with no known footprint on
// either side produce ErrUnsupportedFormat.
func Format(f gputypes.TextureFormat) (texel.Format, error) {
	if id, ok := pixelFormats[f]; ok {
		return texel.FormatFor(id)
	}
	if size, ok := pixelSizes[f]; ok {
		return texel.Format{ID: texel.PixelFormatWrap(uint32(f)), PixelSize: size}, nil
	}
	return texel.Format{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

// Extent converts a size in pixels to a gputypes extent. Sizes are
// clamped at zero; components above the uint32 range are an error.
func Extent(size texel.Vec3) (gputypes.Extent3D, error) {
	c := [3]uint32{}
	for i, v := range [3]int{size.X, size.Y, size.Z} {
		if v < 0 {
			v = 0
		}
		if uint64(v) > 0xffffffff {
			return gputypes.Extent3D{}, fmt.Errorf("%w: %v", ErrExtentOverflow, size)
		}
		c[i] = uint32(v)
	}
	return gputypes.Extent3D{Width: c[0], Height: c[1], DepthOrArrayLayers: c[2]}, nil
}

// Size converts a gputypes extent back to a size in pixels.
func Size(e gputypes.Extent3D) texel.Vec3 {
	return texel.Vec3{X: int(e.Width), Y: int(e.Height), Z: int(e.DepthOrArrayLayers)}
}

// Traits resolves formats through the gputypes tables, falling back to
// the generic texel tables for formats that are not wrapped texture
// formats.
type Traits struct{}

// Format implements texel.FormatTraits.
func (Traits) Format(id texel.PixelFormat) (texel.Format, error) {
	if id.IsImplementationSpecific() {
		return Format(gputypes.TextureFormat(id.Unwrap()))
	}
	return texel.FormatFor(id)
}

// CompressedFormat implements texel.FormatTraits. The gputypes surface
// carries no compressed texture layout tables, so only generic
// compressed formats resolve.
func (Traits) CompressedFormat(id texel.CompressedPixelFormat) (texel.CompressedFormat, error) {
	return texel.CompressedFormatFor(id)
}

var _ texel.FormatTraits = Traits{}

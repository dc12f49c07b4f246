// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package interop converts between texel containers and the standard
// library image types.
//
// Wrapping is zero-copy where the layouts line up: an RGBA8 or R8
// texel image with arbitrary row padding maps directly onto the
// Pix/Stride representation of image.RGBA and image.Gray. Conversions
// from arbitrary image.Image sources and scaled conversions copy
// through golang.org/x/image/draw.
package interop

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/texel"
)

// Conversion errors.
var (
	// ErrUnsupportedFormat is returned when wrapping an image whose
	// format has no standard library counterpart.
	ErrUnsupportedFormat = errors.New("interop: no standard image type for this format")

	// ErrNot2D is returned when wrapping an image that is not
	// two-dimensional.
	ErrNot2D = errors.New("interop: only 2D images can be wrapped")
)

// WrapRGBA wraps a 2D RGBA8 view as an image.RGBA sharing the same
// memory. Row padding from the storage parameters becomes the stride;
// writes through the returned image modify the viewed data.
func WrapRGBA(v texel.ImageView) (*image.RGBA, error) {
	pix, stride, err := wrapPix(v, texel.PixelFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, v.Size().X, v.Size().Y),
	}, nil
}

// WrapGray wraps a 2D R8 view as an image.Gray sharing the same
// memory.
func WrapGray(v texel.ImageView) (*image.Gray, error) {
	pix, stride, err := wrapPix(v, texel.PixelFormatR8Unorm)
	if err != nil {
		return nil, err
	}
	return &image.Gray{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, v.Size().X, v.Size().Y),
	}, nil
}

// wrapPix validates the wrap preconditions shared by the zero-copy
// wrappers and returns the pixel slice and row stride.
//
// Storage parameters like an ImageHeight below the Y skip exclude the
// skipped rows from the minimum data size, so the addressed region is
// not necessarily backed by the data; that is checked explicitly here
// rather than left to a slice bounds panic.
func wrapPix(v texel.ImageView, want texel.PixelFormat) ([]byte, int, error) {
	if v.Dimensions() != 2 {
		return nil, 0, fmt.Errorf("%w: got %d dimensions", ErrNot2D, v.Dimensions())
	}
	if v.Format().ID != want {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, v.Format().ID)
	}
	props := v.DataProperties()
	start := props.Offset.X + props.Offset.Y
	size := v.Size()
	end := start
	if size.X > 0 && size.Y > 0 {
		end = start + props.Extent.X*(size.Y-1) + size.X*v.Format().PixelSize
	}
	data := v.Data()
	if end > len(data) {
		return nil, 0, fmt.Errorf("%w: the skipped rows are not backed by the data", texel.ErrDataTooSmall)
	}
	return data[start:], props.Extent.X, nil
}

// FromImage converts any standard image into a tightly packed RGBA8
// texel image, copying the pixels.
func FromImage(src image.Image) (*texel.Image, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	format, err := texel.FormatFor(texel.PixelFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	storage := texel.PixelStorage{Alignment: 1}
	size := texel.Size2(w, h)
	data := make([]byte, storage.DataSize(format.PixelSize, size))
	out, err := texel.NewImage(2, storage, format, size, data, 0)
	if err != nil {
		return nil, err
	}
	dst, err := WrapRGBA(out.MutableView())
	if err != nil {
		return nil, err
	}
	draw.Draw(dst, dst.Rect, src, bounds.Min, draw.Src)
	return out, nil
}

// ToImage copies a 2D RGBA8 view into a standalone image.RGBA that
// does not alias the view's memory.
func ToImage(v texel.ImageView) (*image.RGBA, error) {
	wrapped, err := WrapRGBA(v)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(wrapped.Rect)
	draw.Draw(out, out.Rect, wrapped, wrapped.Rect.Min, draw.Src)
	return out, nil
}

// Scale resamples a 2D RGBA8 view into a new tightly packed RGBA8
// texel image of the given size. A nil scaler defaults to CatmullRom.
func Scale(v texel.ImageView, size texel.Vec3, scaler draw.Scaler) (*texel.Image, error) {
	src, err := WrapRGBA(v)
	if err != nil {
		return nil, err
	}
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	format, err := texel.FormatFor(texel.PixelFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	storage := texel.PixelStorage{Alignment: 1}
	data := make([]byte, storage.DataSize(format.PixelSize, size))
	out, err := texel.NewImage(2, storage, format, size, data, 0)
	if err != nil {
		return nil, err
	}
	dst, err := WrapRGBA(out.MutableView())
	if err != nil {
		return nil, err
	}
	scaler.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	return out, nil
}

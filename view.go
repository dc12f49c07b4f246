package texel

import (
	"errors"
	"fmt"
)

// View errors.
var (
	// ErrViewImmutable is returned when write access is requested on an
	// immutable view.
	ErrViewImmutable = errors.New("texel: view does not provide mutable access")

	// ErrNarrowingView is returned when widening a view to the same or a
	// lower dimensionality.
	ErrNarrowingView = errors.New("texel: can only widen a view to a higher dimensionality")
)

// ImageView is an uncompressed image referencing externally owned pixel
// data. It carries the same metadata as Image but never owns the buffer;
// the view must not outlive the memory it references, which is the
// caller's contract and not enforced at runtime.
//
// A view is either immutable or mutable. The Data accessor is always
// available and writes through it are a contract violation on immutable
// views; MutableData and MutablePixels check the access level.
type ImageView struct {
	dims    int
	storage PixelStorage
	format  Format
	size    Vec3
	flags   ImageFlags
	data    []byte
	mutable bool
}

// NewImageView creates an immutable view over data with the given
// layout. The same validation as for NewImage applies.
func NewImageView(dims int, storage PixelStorage, format Format, size Vec3, data []byte, flags ImageFlags) (ImageView, error) {
	required, err := ImageDataSize(dims, storage, format, size, flags)
	if err != nil {
		return ImageView{}, err
	}
	if len(data) < required {
		return ImageView{}, fmt.Errorf("%w: needs %d bytes, got %d", ErrDataTooSmall, required, len(data))
	}
	return ImageView{
		dims:    dims,
		storage: storage,
		format:  format,
		size:    size,
		flags:   flags,
		data:    data,
	}, nil
}

// NewMutableImageView is NewImageView with write access.
func NewMutableImageView(dims int, storage PixelStorage, format Format, size Vec3, data []byte, flags ImageFlags) (ImageView, error) {
	v, err := NewImageView(dims, storage, format, size, data, flags)
	if err != nil {
		return ImageView{}, err
	}
	v.mutable = true
	return v, nil
}

// Dimensions returns the view dimensionality, 1 to 3.
func (v ImageView) Dimensions() int { return v.dims }

// Storage returns the pixel storage parameters.
func (v ImageView) Storage() PixelStorage { return v.storage }

// Format returns the resolved pixel format.
func (v ImageView) Format() Format { return v.format }

// Size returns the image size in pixels.
func (v ImageView) Size() Vec3 { return v.size }

// Flags returns the layout flags.
func (v ImageView) Flags() ImageFlags { return v.flags }

// IsMutable reports whether the view provides write access.
func (v ImageView) IsMutable() bool { return v.mutable }

// Data returns the referenced bytes. Writing through the returned slice
// of an immutable view is a contract violation.
func (v ImageView) Data() []byte { return v.data }

// MutableData returns the referenced bytes for writing, or
// ErrViewImmutable when the view is read-only.
func (v ImageView) MutableData() ([]byte, error) {
	if !v.mutable {
		return nil, ErrViewImmutable
	}
	return v.data, nil
}

// DataProperties returns the byte layout of the viewed image.
func (v ImageView) DataProperties() DataProperties {
	return v.storage.DataProperties(v.format.PixelSize, v.size)
}

// DataSize returns the minimum byte length of a buffer holding the
// viewed image.
func (v ImageView) DataSize() int {
	return v.storage.DataSize(v.format.PixelSize, v.size)
}

// Pixels returns a strided per-pixel view over the referenced data.
func (v ImageView) Pixels() Pixels {
	return newPixels(v.data, v.dims, v.format.PixelSize, v.storage, v.size)
}

// MutablePixels is Pixels for write access, or ErrViewImmutable when
// the view is read-only.
func (v ImageView) MutablePixels() (Pixels, error) {
	if !v.mutable {
		return Pixels{}, ErrViewImmutable
	}
	return v.Pixels(), nil
}

// Immutable returns a read-only copy of the view. Converting a mutable
// view down is always possible; there is no way back up.
func (v ImageView) Immutable() ImageView {
	v.mutable = false
	return v
}

// SetData replaces the referenced data, keeping the layout. The new
// data has to satisfy the same minimum size as the current layout
// requires.
func (v *ImageView) SetData(data []byte) error {
	if required := v.DataSize(); len(data) < required {
		return fmt.Errorf("%w: needs %d bytes, got %d", ErrDataTooSmall, required, len(data))
	}
	v.data = data
	return nil
}

// Widen reinterprets the view at a higher dimensionality, padding the
// size with 1 on the new axes. The Array flag of a 2D source is
// stripped, since a 2D array reinterpreted as 3D would wrongly claim to
// be a stack of 2D layers; extraFlags are OR-ed in afterwards and the
// result is validated against the padded size.
func (v ImageView) Widen(dims int, extraFlags ImageFlags) (ImageView, error) {
	validateDims(dims)
	if dims <= v.dims {
		return ImageView{}, fmt.Errorf("%w: %d to %d", ErrNarrowingView, v.dims, dims)
	}
	flags := v.flags
	if v.dims == 2 {
		flags &^= ImageFlagArray
	}
	flags |= extraFlags
	if err := flags.validate(dims, v.size); err != nil {
		return ImageView{}, err
	}
	v.dims = dims
	v.flags = flags
	return v, nil
}

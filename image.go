package texel

import (
	"errors"
	"fmt"
)

// Container errors.
var (
	// ErrDataTooSmall is returned when a data buffer cannot hold the
	// image described by the storage parameters and size.
	ErrDataTooSmall = errors.New("texel: data too small for the described image")

	// ErrInvalidSize is returned when size components past the image
	// dimensionality are not 1.
	ErrInvalidSize = errors.New("texel: size components past the image dimensionality have to be 1")
)

// validateDims panics for dimensionalities outside 1..3. The
// dimensionality is a structural property of the calling code, never
// runtime input.
func validateDims(dims int) {
	if dims < 1 || dims > 3 {
		panic("texel: image dimensionality has to be 1, 2 or 3")
	}
}

// validateSizeDims checks that size axes beyond the image
// dimensionality are left at 1, as produced by Size1 and Size2.
func validateSizeDims(dims int, size Vec3) error {
	if (dims < 3 && size.Z != 1) || (dims < 2 && size.Y != 1) {
		return fmt.Errorf("%w: %d dimensions with size %v", ErrInvalidSize, dims, size)
	}
	return nil
}

// Image is an uncompressed image owning its pixel data: pixel storage
// parameters, a resolved format, a size, layout flags and the backing
// byte buffer.
//
// An Image is either populated or a placeholder. A placeholder holds
// only the storage and format, has a zero size and no data, and is used
// to describe the desired layout of a later fill operation. Release and
// failed SetData leave the image in the placeholder state.
type Image struct {
	dims    int
	storage PixelStorage
	format  Format
	size    Vec3
	flags   ImageFlags
	data    []byte
}

// ImageDataSize validates an uncompressed image description and returns
// the minimum byte length a buffer has to have to hold it. It is the
// shared validation entry point of all uncompressed containers and is
// exported for collaborators that size buffers ahead of construction.
func ImageDataSize(dims int, storage PixelStorage, format Format, size Vec3, flags ImageFlags) (int, error) {
	validateDims(dims)
	if err := format.Validate(); err != nil {
		return 0, err
	}
	if err := validateSizeDims(dims, size); err != nil {
		return 0, err
	}
	if err := flags.validate(dims, size); err != nil {
		return 0, err
	}
	return storage.dataSizeChecked(format.PixelSize, size)
}

// CompressedImageDataSize is ImageDataSize for compressed image
// descriptions. Block parameters set on the storage have to match the
// format; unset ones are resolved from it.
func CompressedImageDataSize(dims int, storage CompressedPixelStorage, format CompressedFormat, size Vec3, flags ImageFlags) (int, error) {
	validateDims(dims)
	if err := format.Validate(); err != nil {
		return 0, err
	}
	if err := validateBlockConsistency(storage, format); err != nil {
		return 0, err
	}
	if err := validateSizeDims(dims, size); err != nil {
		return 0, err
	}
	if err := flags.validate(dims, size); err != nil {
		return 0, err
	}
	return storage.Resolved(format).dataSizeChecked(size)
}

// NewImage creates an image of the given dimensionality taking
// ownership of data. The data length has to be at least the minimum
// size the storage parameters compute for the format and size;
// undersized data, an invalid pixel size or a flag/size mismatch is an
// error.
func NewImage(dims int, storage PixelStorage, format Format, size Vec3, data []byte, flags ImageFlags) (*Image, error) {
	required, err := ImageDataSize(dims, storage, format, size, flags)
	if err != nil {
		return nil, err
	}
	if len(data) < required {
		return nil, fmt.Errorf("%w: needs %d bytes, got %d", ErrDataTooSmall, required, len(data))
	}
	return &Image{
		dims:    dims,
		storage: storage,
		format:  format,
		size:    size,
		flags:   flags,
		data:    data,
	}, nil
}

// NewImagePlaceholder creates a zero-sized image holding only the
// storage parameters and format. Populate it with SetData.
func NewImagePlaceholder(dims int, storage PixelStorage, format Format) (*Image, error) {
	validateDims(dims)
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if err := storage.Validate(); err != nil {
		return nil, err
	}
	return &Image{dims: dims, storage: storage, format: format, size: placeholderSize(dims)}, nil
}

// Dimensions returns the image dimensionality, 1 to 3.
func (i *Image) Dimensions() int { return i.dims }

// Storage returns the pixel storage parameters.
func (i *Image) Storage() PixelStorage { return i.storage }

// Format returns the resolved pixel format.
func (i *Image) Format() Format { return i.format }

// Size returns the image size in pixels. Axes beyond the image
// dimensionality are 1, or 0 for a placeholder.
func (i *Image) Size() Vec3 { return i.size }

// Flags returns the layout flags.
func (i *Image) Flags() ImageFlags { return i.flags }

// Data returns the backing byte buffer. It is nil for placeholders.
func (i *Image) Data() []byte { return i.data }

// DataProperties returns the byte layout of the image under its current
// storage parameters and size.
func (i *Image) DataProperties() DataProperties {
	return i.storage.DataProperties(i.format.PixelSize, i.size)
}

// DataSize returns the minimum byte length a buffer has to have to hold
// this image.
func (i *Image) DataSize() int {
	return i.storage.DataSize(i.format.PixelSize, i.size)
}

// Pixels returns a strided per-pixel view over the image data. The view
// aliases the image's buffer, so writes through it modify the image. It
// is empty for placeholders.
func (i *Image) Pixels() Pixels {
	return newPixels(i.data, i.dims, i.format.PixelSize, i.storage, i.size)
}

// SetData replaces the storage parameters, format, size and data.
//
// Passing nil data keeps the existing buffer and only re-describes it
// with the new layout; the existing buffer still has to be large enough.
// This allows resizing the logical image without reallocating when a
// query operation will fill a pre-sized buffer.
//
// On error the image is left unchanged.
func (i *Image) SetData(storage PixelStorage, format Format, size Vec3, data []byte) error {
	required, err := ImageDataSize(i.dims, storage, format, size, i.flags)
	if err != nil {
		return err
	}
	if data == nil {
		data = i.data
	}
	if len(data) < required {
		return fmt.Errorf("%w: needs %d bytes, got %d", ErrDataTooSmall, required, len(data))
	}

	i.storage = storage
	i.format = format
	i.size = size
	i.data = data
	return nil
}

// Release transfers ownership of the data buffer to the caller and
// resets the image to the placeholder state: the size becomes zero and
// the data nil, while storage and format are kept.
func (i *Image) Release() []byte {
	data := i.data
	i.data = nil
	i.size = placeholderSize(i.dims)
	return data
}

// View returns an immutable non-owning view carrying the same metadata
// and referencing the same buffer. The view must not outlive the image's
// buffer.
func (i *Image) View() ImageView {
	return ImageView{
		dims:    i.dims,
		storage: i.storage,
		format:  i.format,
		size:    i.size,
		flags:   i.flags,
		data:    i.data,
	}
}

// MutableView is View with write access.
func (i *Image) MutableView() ImageView {
	v := i.View()
	v.mutable = true
	return v
}

// placeholderSize is the size of an empty image: zero up to the image
// dimensionality, 1 past it so layout math stays consistent.
func placeholderSize(dims int) Vec3 {
	s := Vec3{0, 1, 1}
	if dims >= 2 {
		s.Y = 0
	}
	if dims >= 3 {
		s.Z = 0
	}
	return s
}

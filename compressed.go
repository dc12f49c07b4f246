package texel

import (
	"errors"
	"fmt"
)

// Compressed container errors.
var (
	// ErrBlockPropertiesMismatch is returned when storage parameters
	// specify block properties that contradict the pixel format.
	ErrBlockPropertiesMismatch = errors.New("texel: storage block properties do not match the format")
)

// validateBlockConsistency checks that block parameters explicitly set
// on the storage agree with the format. Zero storage parameters are
// derive-from-format placeholders and always consistent.
func validateBlockConsistency(storage CompressedPixelStorage, format CompressedFormat) error {
	if !storage.BlockSize.IsZero() && storage.BlockSize != format.BlockSize {
		return fmt.Errorf("%w: storage block size %v, format %v", ErrBlockPropertiesMismatch, storage.BlockSize, format.BlockSize)
	}
	if storage.BlockDataSize != 0 && storage.BlockDataSize != format.BlockDataSize {
		return fmt.Errorf("%w: storage block data size %d, format %d", ErrBlockPropertiesMismatch, storage.BlockDataSize, format.BlockDataSize)
	}
	return nil
}

// CompressedImage is a block-compressed image owning its data. It
// mirrors Image with block-granular layout semantics: the storage
// parameters operate in whole blocks and the format supplies the block
// footprint where the storage leaves it unresolved.
type CompressedImage struct {
	dims    int
	storage CompressedPixelStorage
	format  CompressedFormat
	size    Vec3
	flags   ImageFlags
	data    []byte
}

// NewCompressedImage creates a compressed image of the given
// dimensionality taking ownership of data. Block parameters set on the
// storage have to match the format; the data length has to be at least
// the minimum the resolved storage computes for the size.
func NewCompressedImage(dims int, storage CompressedPixelStorage, format CompressedFormat, size Vec3, data []byte, flags ImageFlags) (*CompressedImage, error) {
	required, err := CompressedImageDataSize(dims, storage, format, size, flags)
	if err != nil {
		return nil, err
	}
	if len(data) < required {
		return nil, fmt.Errorf("%w: needs %d bytes, got %d", ErrDataTooSmall, required, len(data))
	}
	return &CompressedImage{
		dims:    dims,
		storage: storage,
		format:  format,
		size:    size,
		flags:   flags,
		data:    data,
	}, nil
}

// NewCompressedImagePlaceholder creates a zero-sized compressed image
// holding only the storage parameters and format.
func NewCompressedImagePlaceholder(dims int, storage CompressedPixelStorage, format CompressedFormat) (*CompressedImage, error) {
	validateDims(dims)
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if err := validateBlockConsistency(storage, format); err != nil {
		return nil, err
	}
	return &CompressedImage{dims: dims, storage: storage, format: format, size: placeholderSize(dims)}, nil
}

// Dimensions returns the image dimensionality, 1 to 3.
func (i *CompressedImage) Dimensions() int { return i.dims }

// Storage returns the compressed pixel storage parameters as given at
// construction, including any derive-from-format placeholders.
func (i *CompressedImage) Storage() CompressedPixelStorage { return i.storage }

// Format returns the resolved compressed format.
func (i *CompressedImage) Format() CompressedFormat { return i.format }

// Size returns the image size in pixels.
func (i *CompressedImage) Size() Vec3 { return i.size }

// Flags returns the layout flags.
func (i *CompressedImage) Flags() ImageFlags { return i.flags }

// Data returns the backing byte buffer. It is nil for placeholders.
func (i *CompressedImage) Data() []byte { return i.data }

// DataProperties returns the block-granular layout of the image, with
// storage placeholders resolved from the format.
func (i *CompressedImage) DataProperties() BlockProperties {
	return i.storage.Resolved(i.format).DataProperties(i.size)
}

// DataSize returns the minimum byte length a buffer has to have to hold
// this image.
func (i *CompressedImage) DataSize() int {
	return i.storage.Resolved(i.format).DataSize(i.size)
}

// SetData replaces the storage parameters, format, size and data, with
// the same nil-data sentinel semantics as Image.SetData. On error the
// image is left unchanged.
func (i *CompressedImage) SetData(storage CompressedPixelStorage, format CompressedFormat, size Vec3, data []byte) error {
	required, err := CompressedImageDataSize(i.dims, storage, format, size, i.flags)
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
// resets the image to the placeholder state.
func (i *CompressedImage) Release() []byte {
	data := i.data
	i.data = nil
	i.size = placeholderSize(i.dims)
	return data
}

// View returns an immutable non-owning view carrying the same metadata
// and referencing the same buffer.
func (i *CompressedImage) View() CompressedImageView {
	return CompressedImageView{
		dims:    i.dims,
		storage: i.storage,
		format:  i.format,
		size:    i.size,
		flags:   i.flags,
		data:    i.data,
	}
}

// MutableView is View with write access.
func (i *CompressedImage) MutableView() CompressedImageView {
	v := i.View()
	v.mutable = true
	return v
}

// CompressedImageView is a block-compressed image referencing
// externally owned data. The same ownership and mutability contract as
// for ImageView applies.
type CompressedImageView struct {
	dims    int
	storage CompressedPixelStorage
	format  CompressedFormat
	size    Vec3
	flags   ImageFlags
	data    []byte
	mutable bool
}

// NewCompressedImageView creates an immutable view over data with the
// given layout. The same validation as for NewCompressedImage applies.
func NewCompressedImageView(dims int, storage CompressedPixelStorage, format CompressedFormat, size Vec3, data []byte, flags ImageFlags) (CompressedImageView, error) {
	required, err := CompressedImageDataSize(dims, storage, format, size, flags)
	if err != nil {
		return CompressedImageView{}, err
	}
	if len(data) < required {
		return CompressedImageView{}, fmt.Errorf("%w: needs %d bytes, got %d", ErrDataTooSmall, required, len(data))
	}
	return CompressedImageView{
		dims:    dims,
		storage: storage,
		format:  format,
		size:    size,
		flags:   flags,
		data:    data,
	}, nil
}

// NewMutableCompressedImageView is NewCompressedImageView with write
// access.
func NewMutableCompressedImageView(dims int, storage CompressedPixelStorage, format CompressedFormat, size Vec3, data []byte, flags ImageFlags) (CompressedImageView, error) {
	v, err := NewCompressedImageView(dims, storage, format, size, data, flags)
	if err != nil {
		return CompressedImageView{}, err
	}
	v.mutable = true
	return v, nil
}

// Dimensions returns the view dimensionality, 1 to 3.
func (v CompressedImageView) Dimensions() int { return v.dims }

// Storage returns the compressed pixel storage parameters.
func (v CompressedImageView) Storage() CompressedPixelStorage { return v.storage }

// Format returns the resolved compressed format.
func (v CompressedImageView) Format() CompressedFormat { return v.format }

// Size returns the image size in pixels.
func (v CompressedImageView) Size() Vec3 { return v.size }

// Flags returns the layout flags.
func (v CompressedImageView) Flags() ImageFlags { return v.flags }

// IsMutable reports whether the view provides write access.
func (v CompressedImageView) IsMutable() bool { return v.mutable }

// Data returns the referenced bytes.
func (v CompressedImageView) Data() []byte { return v.data }

// MutableData returns the referenced bytes for writing, or
// ErrViewImmutable when the view is read-only.
func (v CompressedImageView) MutableData() ([]byte, error) {
	if !v.mutable {
		return nil, ErrViewImmutable
	}
	return v.data, nil
}

// DataProperties returns the block-granular layout of the viewed image.
func (v CompressedImageView) DataProperties() BlockProperties {
	return v.storage.Resolved(v.format).DataProperties(v.size)
}

// DataSize returns the minimum byte length of a buffer holding the
// viewed image.
func (v CompressedImageView) DataSize() int {
	return v.storage.Resolved(v.format).DataSize(v.size)
}

// Immutable returns a read-only copy of the view.
func (v CompressedImageView) Immutable() CompressedImageView {
	v.mutable = false
	return v
}

// SetData replaces the referenced data, keeping the layout.
func (v *CompressedImageView) SetData(data []byte) error {
	if required := v.DataSize(); len(data) < required {
		return fmt.Errorf("%w: needs %d bytes, got %d", ErrDataTooSmall, required, len(data))
	}
	v.data = data
	return nil
}

// Widen reinterprets the view at a higher dimensionality with the same
// flag-propagation rules as ImageView.Widen.
func (v CompressedImageView) Widen(dims int, extraFlags ImageFlags) (CompressedImageView, error) {
	validateDims(dims)
	if dims <= v.dims {
		return CompressedImageView{}, fmt.Errorf("%w: %d to %d", ErrNarrowingView, v.dims, dims)
	}
	flags := v.flags
	if v.dims == 2 {
		flags &^= ImageFlagArray
	}
	flags |= extraFlags
	if err := flags.validate(dims, v.size); err != nil {
		return CompressedImageView{}, err
	}
	v.dims = dims
	v.flags = flags
	return v, nil
}

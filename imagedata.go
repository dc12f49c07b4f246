package texel

import (
	"errors"
	"fmt"
)

// ImageData errors.
var (
	// ErrViewDataOwned is returned when a non-owning ImageData
	// constructor is given DataFlagOwned.
	ErrViewDataOwned = errors.New("texel: non-owned data cannot have the owned flag")

	// ErrDataImmutable is returned when write access is requested on
	// ImageData without DataFlagMutable.
	ErrDataImmutable = errors.New("texel: data is not mutable")
)

// DataFlags describes the ownership and access level of an ImageData
// buffer.
type DataFlags uint8

const (
	// DataFlagOwned means the ImageData owns its buffer and frees it
	// with the instance.
	DataFlagOwned DataFlags = 1 << 0

	// DataFlagMutable means writing through MutableData and
	// MutablePixels is permitted.
	DataFlagMutable DataFlags = 1 << 1
)

// ImageData holds either a compressed or an uncompressed image behind
// one type, discriminated by IsCompressed. It is the interchange
// currency between image loaders, converters and GPU uploaders: loaders
// produce ImageData without the consumer needing to know up front which
// shape it has.
//
// Accessors of the shape the instance does not have, such as Storage on
// a compressed instance, are programming errors and panic. Check
// IsCompressed first.
type ImageData struct {
	dims       int
	compressed bool

	storage PixelStorage
	format  Format

	cStorage CompressedPixelStorage
	cFormat  CompressedFormat

	size      Vec3
	flags     ImageFlags
	dataFlags DataFlags
	data      []byte
}

// NewImageData creates an uncompressed ImageData taking ownership of
// data. The resulting instance has DataFlagOwned and DataFlagMutable.
func NewImageData(dims int, storage PixelStorage, format Format, size Vec3, data []byte, flags ImageFlags) (*ImageData, error) {
	// The layout validation is shared with Image.
	if _, err := NewImage(dims, storage, format, size, data, flags); err != nil {
		return nil, err
	}
	return &ImageData{
		dims:      dims,
		storage:   storage,
		format:    format,
		size:      size,
		flags:     flags,
		dataFlags: DataFlagOwned | DataFlagMutable,
		data:      data,
	}, nil
}

// NewImageDataView creates an uncompressed ImageData referencing
// externally owned data. The dataFlags must not contain DataFlagOwned;
// include DataFlagMutable when writing through the instance is allowed.
func NewImageDataView(dims int, storage PixelStorage, format Format, size Vec3, dataFlags DataFlags, data []byte, flags ImageFlags) (*ImageData, error) {
	if dataFlags&DataFlagOwned != 0 {
		return nil, ErrViewDataOwned
	}
	d, err := NewImageData(dims, storage, format, size, data, flags)
	if err != nil {
		return nil, err
	}
	d.dataFlags = dataFlags
	return d, nil
}

// NewCompressedImageData creates a compressed ImageData taking
// ownership of data. The resulting instance has DataFlagOwned and
// DataFlagMutable.
func NewCompressedImageData(dims int, storage CompressedPixelStorage, format CompressedFormat, size Vec3, data []byte, flags ImageFlags) (*ImageData, error) {
	if _, err := NewCompressedImage(dims, storage, format, size, data, flags); err != nil {
		return nil, err
	}
	return &ImageData{
		dims:       dims,
		compressed: true,
		cStorage:   storage,
		cFormat:    format,
		size:       size,
		flags:      flags,
		dataFlags:  DataFlagOwned | DataFlagMutable,
		data:       data,
	}, nil
}

// NewCompressedImageDataView creates a compressed ImageData referencing
// externally owned data, with the same dataFlags contract as
// NewImageDataView.
func NewCompressedImageDataView(dims int, storage CompressedPixelStorage, format CompressedFormat, size Vec3, dataFlags DataFlags, data []byte, flags ImageFlags) (*ImageData, error) {
	if dataFlags&DataFlagOwned != 0 {
		return nil, ErrViewDataOwned
	}
	d, err := NewCompressedImageData(dims, storage, format, size, data, flags)
	if err != nil {
		return nil, err
	}
	d.dataFlags = dataFlags
	return d, nil
}

// IsCompressed reports which shape the instance has and thus which
// accessor set is valid.
func (d *ImageData) IsCompressed() bool { return d.compressed }

// Dimensions returns the image dimensionality, 1 to 3.
func (d *ImageData) Dimensions() int { return d.dims }

// Size returns the image size in pixels.
func (d *ImageData) Size() Vec3 { return d.size }

// Flags returns the layout flags.
func (d *ImageData) Flags() ImageFlags { return d.flags }

// DataFlags returns the ownership and access flags.
func (d *ImageData) DataFlags() DataFlags { return d.dataFlags }

// Data returns the held bytes. Writing through the returned slice
// without DataFlagMutable is a contract violation; use MutableData.
func (d *ImageData) Data() []byte { return d.data }

// MutableData returns the held bytes for writing, or ErrDataImmutable
// when the instance lacks DataFlagMutable.
func (d *ImageData) MutableData() ([]byte, error) {
	if d.dataFlags&DataFlagMutable == 0 {
		return nil, ErrDataImmutable
	}
	return d.data, nil
}

// Storage returns the pixel storage parameters of an uncompressed
// instance. It panics on a compressed one.
func (d *ImageData) Storage() PixelStorage {
	if d.compressed {
		panic("texel: the image is compressed")
	}
	return d.storage
}

// Format returns the resolved format of an uncompressed instance. It
// panics on a compressed one.
func (d *ImageData) Format() Format {
	if d.compressed {
		panic("texel: the image is compressed")
	}
	return d.format
}

// CompressedStorage returns the storage parameters of a compressed
// instance. It panics on an uncompressed one.
func (d *ImageData) CompressedStorage() CompressedPixelStorage {
	if !d.compressed {
		panic("texel: the image is not compressed")
	}
	return d.cStorage
}

// CompressedFormat returns the resolved format of a compressed
// instance. It panics on an uncompressed one.
func (d *ImageData) CompressedFormat() CompressedFormat {
	if !d.compressed {
		panic("texel: the image is not compressed")
	}
	return d.cFormat
}

// DataSize returns the minimum byte length a buffer has to have to hold
// this image, for either shape.
func (d *ImageData) DataSize() int {
	if d.compressed {
		return d.cStorage.Resolved(d.cFormat).DataSize(d.size)
	}
	return d.storage.DataSize(d.format.PixelSize, d.size)
}

// Pixels returns a strided per-pixel view over an uncompressed
// instance's data. It panics on a compressed one.
func (d *ImageData) Pixels() Pixels {
	if d.compressed {
		panic("texel: the image is compressed")
	}
	return newPixels(d.data, d.dims, d.format.PixelSize, d.storage, d.size)
}

// MutablePixels is Pixels for write access, or ErrDataImmutable when
// the instance lacks DataFlagMutable. Like Pixels it panics on a
// compressed instance.
func (d *ImageData) MutablePixels() (Pixels, error) {
	if d.dataFlags&DataFlagMutable == 0 {
		return Pixels{}, ErrDataImmutable
	}
	return d.Pixels(), nil
}

// View returns a non-owning ImageView over an uncompressed instance,
// mutable when the instance is. It panics on a compressed one.
func (d *ImageData) View() ImageView {
	if d.compressed {
		panic("texel: the image is compressed")
	}
	return ImageView{
		dims:    d.dims,
		storage: d.storage,
		format:  d.format,
		size:    d.size,
		flags:   d.flags,
		data:    d.data,
		mutable: d.dataFlags&DataFlagMutable != 0,
	}
}

// CompressedView returns a non-owning CompressedImageView over a
// compressed instance, mutable when the instance is. It panics on an
// uncompressed one.
func (d *ImageData) CompressedView() CompressedImageView {
	if !d.compressed {
		panic("texel: the image is not compressed")
	}
	return CompressedImageView{
		dims:    d.dims,
		storage: d.cStorage,
		format:  d.cFormat,
		size:    d.size,
		flags:   d.flags,
		data:    d.data,
		mutable: d.dataFlags&DataFlagMutable != 0,
	}
}

// Release transfers the buffer to the caller and resets the instance to
// a zero-size placeholder-like state, keeping the shape and format
// metadata. Releasing a non-owned instance merely drops the reference.
func (d *ImageData) Release() []byte {
	data := d.data
	d.data = nil
	d.size = placeholderSize(d.dims)
	return data
}

// String describes the shape for diagnostics.
func (d *ImageData) String() string {
	if d.compressed {
		return fmt.Sprintf("ImageData%dD(%s, %dx%dx%d)", d.dims, d.cFormat.ID, d.size.X, d.size.Y, d.size.Z)
	}
	return fmt.Sprintf("ImageData%dD(%s, %dx%dx%d)", d.dims, d.format.ID, d.size.X, d.size.Y, d.size.Z)
}

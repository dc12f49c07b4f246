package texel

import (
	"errors"
	"fmt"
	"math/bits"
)

// Data size errors.
var (
	// ErrDataSizeOverflow is returned when a layout computation does not
	// fit into an int.
	ErrDataSizeOverflow = errors.New("texel: data size computation overflows")

	// ErrInvalidAlignment is returned for alignments other than 0, 1, 2,
	// 4 and 8.
	ErrInvalidAlignment = errors.New("texel: alignment has to be 0, 1, 2, 4 or 8")

	// ErrNegativeStorage is returned when a storage parameter or size
	// component is negative.
	ErrNegativeStorage = errors.New("texel: storage parameters and sizes cannot be negative")
)

// PixelStorage describes how a flat byte buffer encodes a rectangular or
// cuboid region of pixels. It carries the classic row-alignment,
// row-length, image-height and skip parameters of GL pixel store state.
//
// The zero value is the default storage: tightly packed rows aligned to
// four bytes, no skip. An Alignment of 0 is treated as the default 4.
type PixelStorage struct {
	// Alignment is the byte alignment of each row start. Valid values
	// are 1, 2, 4 and 8; 0 selects the default of 4.
	Alignment int

	// RowLength is the number of pixels per row used for stride
	// computation. 0 means the actual image width is used. Used only by
	// 2D and 3D images.
	RowLength int

	// ImageHeight is the number of rows per slice used for stride
	// computation. 0 means the actual image height is used. Used only by
	// 3D images.
	ImageHeight int

	// Skip locates the addressable region within a larger virtual
	// buffer: X is in pixels, Y in rows, Z in slices.
	Skip Vec3
}

// DataProperties is the byte layout of an image region: a per-axis byte
// offset produced by the skip parameters and a per-axis extent. Extent.X
// is the aligned row length in bytes, Extent.Y the row count per slice
// and Extent.Z the slice count.
type DataProperties struct {
	Offset Vec3
	Extent Vec3
}

// alignment returns the effective row alignment, resolving the zero
// value to the default of 4.
func (s PixelStorage) alignment() int {
	if s.Alignment == 0 {
		return 4
	}
	return s.Alignment
}

// Validate checks the storage parameters for structural validity. It
// does not resolve format-dependent defaults.
func (s PixelStorage) Validate() error {
	switch s.Alignment {
	case 0, 1, 2, 4, 8:
	default:
		return fmt.Errorf("%w, got %d", ErrInvalidAlignment, s.Alignment)
	}
	if s.RowLength < 0 || s.ImageHeight < 0 || s.Skip.X < 0 || s.Skip.Y < 0 || s.Skip.Z < 0 {
		return ErrNegativeStorage
	}
	return nil
}

// DataProperties computes the byte layout for an image of the given size
// with pixelSize bytes per pixel.
//
// The row byte length is the row length (or the image width when
// RowLength is 0) times the pixel size, rounded up to the alignment. The
// offset vector reflects the skip parameters: X in pixels, Y in rows, Z
// in slices. The sum of the offset components gives the byte offset of
// the first addressed pixel.
//
// A zero-sized image (any size axis 0) has a zero extent regardless of
// the other parameters; the offset is still computed since it describes
// where the region would start.
func (s PixelStorage) DataProperties(pixelSize int, size Vec3) DataProperties {
	align := s.alignment()

	rowLength := size.X
	if s.RowLength != 0 {
		rowLength = s.RowLength
	}
	rowBytes := ceilDiv(rowLength*pixelSize, align) * align

	rows := size.Y
	if s.ImageHeight != 0 {
		rows = s.ImageHeight
	}

	offset := Vec3{
		X: s.Skip.X * pixelSize,
		Y: s.Skip.Y * rowBytes,
		Z: s.Skip.Z * rowBytes * rows,
	}

	extent := Vec3{rowBytes, rows, size.Z}
	if size.Product() == 0 {
		extent = Vec3{}
	}
	return DataProperties{Offset: offset, Extent: extent}
}

// DataSize returns the smallest buffer length in bytes that can hold an
// image of the given size under these storage parameters.
//
// The skip-induced prefix is counted only when it is not already part of
// a larger addressable buffer: the Z offset always counts, the Y offset
// counts only when ImageHeight is unset and the X offset only when
// RowLength is unset. An explicitly pinned row length or image height
// means the skip points inside a buffer the caller already sized.
func (s PixelStorage) DataSize(pixelSize int, size Vec3) int {
	p := s.DataProperties(pixelSize, size)
	return s.skipPrefix(p.Offset) + p.Extent.Product()
}

// skipPrefix returns the portion of the skip offset that contributes to
// the minimum data size.
func (s PixelStorage) skipPrefix(offset Vec3) int {
	if offset.Z != 0 {
		return offset.Z
	}
	if offset.Y != 0 {
		if s.ImageHeight == 0 {
			return offset.Y
		}
		return 0
	}
	if offset.X != 0 && s.RowLength == 0 {
		return offset.X
	}
	return 0
}

// dataSizeChecked is DataSize with overflow detection, used by container
// constructors validating caller-supplied sizes.
func (s PixelStorage) dataSizeChecked(pixelSize int, size Vec3) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		return 0, ErrNegativeStorage
	}

	align := s.alignment()
	rowLength := size.X
	if s.RowLength != 0 {
		rowLength = s.RowLength
	}
	rowPixels, ok := mulChecked(rowLength, pixelSize)
	if !ok || rowPixels > maxInt-align {
		return 0, ErrDataSizeOverflow
	}
	rowBytes := ceilDiv(rowPixels, align) * align

	rows := size.Y
	if s.ImageHeight != 0 {
		rows = s.ImageHeight
	}
	sliceBytes, ok := mulChecked(rowBytes, rows)
	if !ok {
		return 0, ErrDataSizeOverflow
	}

	offset := Vec3{}
	if offset.X, ok = mulChecked(s.Skip.X, pixelSize); !ok {
		return 0, ErrDataSizeOverflow
	}
	if offset.Y, ok = mulChecked(s.Skip.Y, rowBytes); !ok {
		return 0, ErrDataSizeOverflow
	}
	if offset.Z, ok = mulChecked(s.Skip.Z, sliceBytes); !ok {
		return 0, ErrDataSizeOverflow
	}

	extent := 0
	if size.Product() != 0 {
		if extent, ok = mulChecked(sliceBytes, size.Z); !ok {
			return 0, ErrDataSizeOverflow
		}
	}

	total := s.skipPrefix(offset) + extent
	if total < 0 {
		return 0, ErrDataSizeOverflow
	}
	return total, nil
}

// mulChecked multiplies two non-negative ints, reporting overflow.
func mulChecked(a, b int) (int, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(maxInt) {
		return 0, false
	}
	return int(lo), true
}

const maxInt = int(^uint(0) >> 1)

// CompressedPixelStorage extends the PixelStorage row/image/skip
// semantics into block units for block-compressed pixel formats, and
// adds the block footprint parameters. The embedded Alignment is unused:
// compressed rows are always whole blocks.
//
// BlockSize and BlockDataSize left at zero mean "derive from the pixel
// format"; DataProperties requires them to be resolved first.
type CompressedPixelStorage struct {
	PixelStorage

	// BlockSize is the compressed block footprint in pixels per axis.
	// 0 on an axis means the value is derived from the format.
	BlockSize Vec3

	// BlockDataSize is the byte size of one compressed block. 0 means
	// the value is derived from the format.
	BlockDataSize int
}

// BlockProperties is the block-granular layout of a compressed image
// region: a per-axis byte offset produced by the skip parameters and a
// per-axis block count. BlockCount.X is the number of blocks per row
// (honoring RowLength), BlockCount.Y the block rows per slice (honoring
// ImageHeight) and BlockCount.Z the slice count.
type BlockProperties struct {
	Offset     Vec3
	BlockCount Vec3
}

// IsResolved reports whether the block parameters carry concrete values
// rather than derive-from-format placeholders.
func (s CompressedPixelStorage) IsResolved() bool {
	return s.BlockSize.X > 0 && s.BlockSize.Y > 0 && s.BlockSize.Z > 0 && s.BlockDataSize > 0
}

// Resolved returns a copy of the storage with zero block parameters
// filled in from the given format.
func (s CompressedPixelStorage) Resolved(f CompressedFormat) CompressedPixelStorage {
	if s.BlockSize.IsZero() {
		s.BlockSize = f.BlockSize
	}
	if s.BlockDataSize == 0 {
		s.BlockDataSize = f.BlockDataSize
	}
	return s
}

// DataProperties computes the block-granular layout for a compressed
// image of the given size in pixels.
//
// It panics when the block parameters are unresolved; callers have to
// resolve derive-from-format placeholders first, either directly or via
// Resolved.
func (s CompressedPixelStorage) DataProperties(size Vec3) BlockProperties {
	if !s.IsResolved() {
		panic("texel: compressed storage block parameters are not resolved")
	}

	count := Vec3{
		X: ceilDiv(size.X, s.BlockSize.X),
		Y: ceilDiv(size.Y, s.BlockSize.Y),
		Z: ceilDiv(size.Z, s.BlockSize.Z),
	}

	rowBlocks := count.X
	if s.RowLength != 0 {
		rowBlocks = ceilDiv(s.RowLength, s.BlockSize.X)
	}
	sliceRows := count.Y
	if s.ImageHeight != 0 {
		sliceRows = ceilDiv(s.ImageHeight, s.BlockSize.Y)
	}

	skipBlocks := Vec3{
		X: ceilDiv(s.Skip.X, s.BlockSize.X),
		Y: ceilDiv(s.Skip.Y, s.BlockSize.Y),
		Z: ceilDiv(s.Skip.Z, s.BlockSize.Z),
	}
	offset := Vec3{
		X: skipBlocks.X * s.BlockDataSize,
		Y: skipBlocks.Y * rowBlocks * s.BlockDataSize,
		Z: skipBlocks.Z * rowBlocks * sliceRows * s.BlockDataSize,
	}

	extent := Vec3{rowBlocks, sliceRows, count.Z}
	if size.Product() == 0 {
		extent = Vec3{}
	}
	return BlockProperties{Offset: offset, BlockCount: extent}
}

// DataOffsetSize returns the byte offset of the addressed block region
// and the byte length of the whole-block rectangle actually touched by
// size pixels.
//
// The length is clamped to the real ceiling-divided block counts so that
// a partial last row or slice of blocks never reaches past the virtual
// row/image stride, even when the pixel rectangle does not divide evenly
// into blocks.
func (s CompressedPixelStorage) DataOffsetSize(size Vec3) (offset, dataSize int) {
	p := s.DataProperties(size)

	real := Vec3{
		X: ceilDiv(size.X, s.BlockSize.X),
		Y: ceilDiv(size.Y, s.BlockSize.Y),
		Z: ceilDiv(size.Z, s.BlockSize.Z),
	}
	bc := p.BlockCount
	blocks := bc.Product() - (bc.X - real.X) - (bc.Y-real.Y)*bc.X
	return p.Offset.Sum(), blocks * s.BlockDataSize
}

// DataSize returns the smallest buffer length in bytes that can hold a
// compressed image of the given size under these storage parameters.
func (s CompressedPixelStorage) DataSize(size Vec3) int {
	offset, dataSize := s.DataOffsetSize(size)
	return offset + dataSize
}

// dataSizeChecked is DataSize with parameter and overflow validation,
// used by container constructors.
func (s CompressedPixelStorage) dataSizeChecked(size Vec3) (int, error) {
	if s.RowLength < 0 || s.ImageHeight < 0 || s.Skip.X < 0 || s.Skip.Y < 0 || s.Skip.Z < 0 {
		return 0, ErrNegativeStorage
	}
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		return 0, ErrNegativeStorage
	}
	total := s.DataSize(size)
	if total < 0 {
		return 0, ErrDataSizeOverflow
	}
	return total, nil
}

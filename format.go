package texel

import (
	"errors"
	"fmt"
)

// Format errors.
var (
	// ErrUnknownFormat is returned when a format identifier has no
	// built-in layout properties.
	ErrUnknownFormat = errors.New("texel: unknown format")

	// ErrImplementationSpecificFormat is returned when layout properties
	// are requested for a wrapped implementation-specific format; those
	// have to be supplied by the caller.
	ErrImplementationSpecificFormat = errors.New("texel: cannot determine properties of an implementation-specific format")

	// ErrInvalidPixelSize is returned for pixel sizes outside 1..255.
	ErrInvalidPixelSize = errors.New("texel: pixel size has to be non-zero and less than 256")

	// ErrInvalidBlockProperties is returned for block sizes or block
	// data sizes outside 1..255.
	ErrInvalidBlockProperties = errors.New("texel: block size and block data size have to be non-zero and less than 256")
)

// implementationSpecificBit marks a format identifier as carrying a raw
// implementation-specific value instead of a generic one.
const implementationSpecificBit = 1 << 31

// PixelFormat identifies an uncompressed pixel format. Besides the
// generic values defined here, a PixelFormat can wrap an arbitrary
// 32-bit implementation-specific identifier (for example a GL format
// enum or a gputypes.TextureFormat) via PixelFormatWrap.
type PixelFormat uint32

const (
	// PixelFormatUndefined is the zero, invalid format.
	PixelFormatUndefined PixelFormat = iota

	// PixelFormatR8Unorm is single-channel 8-bit normalized (1 byte per pixel).
	PixelFormatR8Unorm

	// PixelFormatRG8Unorm is two-channel 8-bit normalized (2 bytes per pixel).
	PixelFormatRG8Unorm

	// PixelFormatRGB8Unorm is three-channel 8-bit normalized (3 bytes per pixel).
	PixelFormatRGB8Unorm

	// PixelFormatRGBA8Unorm is four-channel 8-bit normalized (4 bytes per pixel).
	PixelFormatRGBA8Unorm

	// PixelFormatBGRA8Unorm is four-channel 8-bit normalized with swapped
	// channel order, common for surface presentation (4 bytes per pixel).
	PixelFormatBGRA8Unorm

	// PixelFormatR16Float is single-channel half-float (2 bytes per pixel).
	PixelFormatR16Float

	// PixelFormatRG16Float is two-channel half-float (4 bytes per pixel).
	PixelFormatRG16Float

	// PixelFormatRGBA16Float is four-channel half-float (8 bytes per pixel).
	PixelFormatRGBA16Float

	// PixelFormatR32Float is single-channel float (4 bytes per pixel).
	PixelFormatR32Float

	// PixelFormatRG32Float is two-channel float (8 bytes per pixel).
	PixelFormatRG32Float

	// PixelFormatRGBA32Float is four-channel float (16 bytes per pixel).
	PixelFormatRGBA32Float

	pixelFormatCount
)

// pixelFormatInfo holds layout metadata for a generic pixel format.
type pixelFormatInfo struct {
	pixelSize int
	channels  int
	name      string
}

var pixelFormatInfoTable = [pixelFormatCount]pixelFormatInfo{
	PixelFormatUndefined:   {0, 0, "Undefined"},
	PixelFormatR8Unorm:     {1, 1, "R8Unorm"},
	PixelFormatRG8Unorm:    {2, 2, "RG8Unorm"},
	PixelFormatRGB8Unorm:   {3, 3, "RGB8Unorm"},
	PixelFormatRGBA8Unorm:  {4, 4, "RGBA8Unorm"},
	PixelFormatBGRA8Unorm:  {4, 4, "BGRA8Unorm"},
	PixelFormatR16Float:    {2, 1, "R16Float"},
	PixelFormatRG16Float:   {4, 2, "RG16Float"},
	PixelFormatRGBA16Float: {8, 4, "RGBA16Float"},
	PixelFormatR32Float:    {4, 1, "R32Float"},
	PixelFormatRG32Float:   {8, 2, "RG32Float"},
	PixelFormatRGBA32Float: {16, 4, "RGBA32Float"},
}

// PixelFormatWrap wraps an implementation-specific 32-bit format
// identifier. It panics when the identifier already has the wrap marker
// bit set.
func PixelFormatWrap(id uint32) PixelFormat {
	if id&implementationSpecificBit != 0 {
		panic("texel: implementation-specific value already wrapped or too large")
	}
	return PixelFormat(id | implementationSpecificBit)
}

// IsImplementationSpecific reports whether the format wraps an
// implementation-specific identifier.
func (f PixelFormat) IsImplementationSpecific() bool {
	return f&implementationSpecificBit != 0
}

// Unwrap returns the wrapped implementation-specific identifier. It
// panics when the format is a generic one.
func (f PixelFormat) Unwrap() uint32 {
	if !f.IsImplementationSpecific() {
		panic("texel: format is not implementation-specific")
	}
	return uint32(f) &^ implementationSpecificBit
}

// PixelSize returns the byte size of one pixel in this format. Wrapped
// implementation-specific formats and unknown values produce an error;
// their pixel size has to be supplied by the caller.
func (f PixelFormat) PixelSize() (int, error) {
	if f.IsImplementationSpecific() {
		return 0, ErrImplementationSpecificFormat
	}
	if f == PixelFormatUndefined || f >= pixelFormatCount {
		return 0, fmt.Errorf("%w %d", ErrUnknownFormat, uint32(f))
	}
	return pixelFormatInfoTable[f].pixelSize, nil
}

// Channels returns the channel count, or 0 for unknown and
// implementation-specific formats.
func (f PixelFormat) Channels() int {
	if f.IsImplementationSpecific() || f >= pixelFormatCount {
		return 0
	}
	return pixelFormatInfoTable[f].channels
}

// String returns a readable format name.
func (f PixelFormat) String() string {
	if f.IsImplementationSpecific() {
		return fmt.Sprintf("ImplementationSpecific(%#x)", f.Unwrap())
	}
	if f >= pixelFormatCount {
		return fmt.Sprintf("Unknown(%d)", uint32(f))
	}
	return pixelFormatInfoTable[f].name
}

// Format is a fully resolved uncompressed pixel format: the identifier,
// an optional secondary qualifier for two-part format systems (such as
// the GL format/type pair) and the byte size of one pixel.
type Format struct {
	ID        PixelFormat
	Extra     uint32
	PixelSize int
}

// FormatFor resolves a generic pixel format into a Format with the
// pixel size filled in from the built-in table.
func FormatFor(id PixelFormat) (Format, error) {
	size, err := id.PixelSize()
	if err != nil {
		return Format{}, err
	}
	return Format{ID: id, PixelSize: size}, nil
}

// Validate checks that the pixel size is within the representable 1..255
// range.
func (f Format) Validate() error {
	if f.PixelSize < 1 || f.PixelSize > 255 {
		return fmt.Errorf("%w, got %d", ErrInvalidPixelSize, f.PixelSize)
	}
	return nil
}

// CompressedPixelFormat identifies a block-compressed pixel format.
// Like PixelFormat it can wrap an implementation-specific identifier.
type CompressedPixelFormat uint32

const (
	// CompressedPixelFormatUndefined is the zero, invalid format.
	CompressedPixelFormatUndefined CompressedPixelFormat = iota

	// CompressedPixelFormatBC1RGBAUnorm is DXT1: 4x4 blocks, 8 bytes per block.
	CompressedPixelFormatBC1RGBAUnorm

	// CompressedPixelFormatBC3RGBAUnorm is DXT5: 4x4 blocks, 16 bytes per block.
	CompressedPixelFormatBC3RGBAUnorm

	// CompressedPixelFormatBC7RGBAUnorm is BPTC: 4x4 blocks, 16 bytes per block.
	CompressedPixelFormatBC7RGBAUnorm

	// CompressedPixelFormatETC2RGB8Unorm is ETC2 RGB: 4x4 blocks, 8 bytes per block.
	CompressedPixelFormatETC2RGB8Unorm

	// CompressedPixelFormatASTC4x4Unorm through
	// CompressedPixelFormatASTC12x12Unorm are ASTC with the given block
	// footprint; every ASTC block is 16 bytes.
	CompressedPixelFormatASTC4x4Unorm
	CompressedPixelFormatASTC5x5Unorm
	CompressedPixelFormatASTC6x6Unorm
	CompressedPixelFormatASTC8x8Unorm
	CompressedPixelFormatASTC10x10Unorm
	CompressedPixelFormatASTC12x12Unorm

	compressedPixelFormatCount
)

// compressedFormatInfo holds layout metadata for a compressed format.
type compressedFormatInfo struct {
	blockSize     Vec3
	blockDataSize int
	name          string
}

var compressedFormatInfoTable = [compressedPixelFormatCount]compressedFormatInfo{
	CompressedPixelFormatUndefined:      {Vec3{}, 0, "Undefined"},
	CompressedPixelFormatBC1RGBAUnorm:   {Vec3{4, 4, 1}, 8, "BC1RGBAUnorm"},
	CompressedPixelFormatBC3RGBAUnorm:   {Vec3{4, 4, 1}, 16, "BC3RGBAUnorm"},
	CompressedPixelFormatBC7RGBAUnorm:   {Vec3{4, 4, 1}, 16, "BC7RGBAUnorm"},
	CompressedPixelFormatETC2RGB8Unorm:  {Vec3{4, 4, 1}, 8, "ETC2RGB8Unorm"},
	CompressedPixelFormatASTC4x4Unorm:   {Vec3{4, 4, 1}, 16, "ASTC4x4Unorm"},
	CompressedPixelFormatASTC5x5Unorm:   {Vec3{5, 5, 1}, 16, "ASTC5x5Unorm"},
	CompressedPixelFormatASTC6x6Unorm:   {Vec3{6, 6, 1}, 16, "ASTC6x6Unorm"},
	CompressedPixelFormatASTC8x8Unorm:   {Vec3{8, 8, 1}, 16, "ASTC8x8Unorm"},
	CompressedPixelFormatASTC10x10Unorm: {Vec3{10, 10, 1}, 16, "ASTC10x10Unorm"},
	CompressedPixelFormatASTC12x12Unorm: {Vec3{12, 12, 1}, 16, "ASTC12x12Unorm"},
}

// CompressedPixelFormatWrap wraps an implementation-specific 32-bit
// compressed format identifier. It panics when the identifier already
// has the wrap marker bit set.
func CompressedPixelFormatWrap(id uint32) CompressedPixelFormat {
	if id&implementationSpecificBit != 0 {
		panic("texel: implementation-specific value already wrapped or too large")
	}
	return CompressedPixelFormat(id | implementationSpecificBit)
}

// IsImplementationSpecific reports whether the format wraps an
// implementation-specific identifier.
func (f CompressedPixelFormat) IsImplementationSpecific() bool {
	return f&implementationSpecificBit != 0
}

// Unwrap returns the wrapped implementation-specific identifier. It
// panics when the format is a generic one.
func (f CompressedPixelFormat) Unwrap() uint32 {
	if !f.IsImplementationSpecific() {
		panic("texel: format is not implementation-specific")
	}
	return uint32(f) &^ implementationSpecificBit
}

// BlockProperties returns the block footprint in pixels and the byte
// size of one block. Wrapped implementation-specific formats and unknown
// values produce an error.
func (f CompressedPixelFormat) BlockProperties() (blockSize Vec3, blockDataSize int, err error) {
	if f.IsImplementationSpecific() {
		return Vec3{}, 0, ErrImplementationSpecificFormat
	}
	if f == CompressedPixelFormatUndefined || f >= compressedPixelFormatCount {
		return Vec3{}, 0, fmt.Errorf("%w %d", ErrUnknownFormat, uint32(f))
	}
	info := compressedFormatInfoTable[f]
	return info.blockSize, info.blockDataSize, nil
}

// String returns a readable format name.
func (f CompressedPixelFormat) String() string {
	if f.IsImplementationSpecific() {
		return fmt.Sprintf("ImplementationSpecific(%#x)", f.Unwrap())
	}
	if f >= compressedPixelFormatCount {
		return fmt.Sprintf("Unknown(%d)", uint32(f))
	}
	return compressedFormatInfoTable[f].name
}

// CompressedFormat is a fully resolved compressed pixel format: the
// identifier, the block footprint in pixels and the byte size of one
// block.
type CompressedFormat struct {
	ID            CompressedPixelFormat
	BlockSize     Vec3
	BlockDataSize int
}

// CompressedFormatFor resolves a generic compressed format into a
// CompressedFormat with the block properties filled in from the
// built-in table.
func CompressedFormatFor(id CompressedPixelFormat) (CompressedFormat, error) {
	blockSize, blockDataSize, err := id.BlockProperties()
	if err != nil {
		return CompressedFormat{}, err
	}
	return CompressedFormat{ID: id, BlockSize: blockSize, BlockDataSize: blockDataSize}, nil
}

// Validate checks that the block footprint and block data size are
// within the representable 1..255 range.
func (f CompressedFormat) Validate() error {
	for _, c := range [...]int{f.BlockSize.X, f.BlockSize.Y, f.BlockSize.Z, f.BlockDataSize} {
		if c < 1 || c > 255 {
			return fmt.Errorf("%w, got %v and %d", ErrInvalidBlockProperties, f.BlockSize, f.BlockDataSize)
		}
	}
	return nil
}

// FormatTraits resolves format identifiers to their layout properties.
// It is the boundary through which containers consume format metadata;
// the built-in generic tables satisfy it via GenericTraits, and GPU
// backends provide their own implementations for wrapped formats.
type FormatTraits interface {
	// Format resolves an uncompressed format identifier.
	Format(id PixelFormat) (Format, error)

	// CompressedFormat resolves a compressed format identifier.
	CompressedFormat(id CompressedPixelFormat) (CompressedFormat, error)
}

// GenericTraits resolves the generic built-in formats.
type GenericTraits struct{}

// Format implements FormatTraits.
func (GenericTraits) Format(id PixelFormat) (Format, error) {
	return FormatFor(id)
}

// CompressedFormat implements FormatTraits.
func (GenericTraits) CompressedFormat(id CompressedPixelFormat) (CompressedFormat, error) {
	return CompressedFormatFor(id)
}

var _ FormatTraits = GenericTraits{}

package texel

import (
	"errors"
	"fmt"
)

// Flag validation errors.
var (
	// ErrCubeMapNot3D is returned when the cube map flag is set on an
	// image that is not three-dimensional.
	ErrCubeMapNot3D = errors.New("texel: cube map flag is only valid for 3D images")

	// ErrCubeMapFaceSize is returned when a cube map image does not have
	// square faces.
	ErrCubeMapFaceSize = errors.New("texel: cube map faces have to be square")

	// ErrCubeMapFaceCount is returned when a cube map image does not
	// have six faces, or a positive multiple of six for cube map arrays.
	ErrCubeMapFaceCount = errors.New("texel: invalid cube map face count")
)

// ImageFlags is layout metadata attached to an image, distinguishing a
// 2D or 3D image from a stack of lower-dimensional images or from cube
// faces. The Array bit has the same value for 2D and 3D images so the
// flag survives dimensionality changes.
//
// Bits not defined here are accepted and carried verbatim for forward
// compatibility.
type ImageFlags uint16

const (
	// ImageFlagArray marks a 2D image as a stack of 1D rows, or a 3D
	// image as a stack of 2D layers. No filtering happens across the
	// stacking axis.
	ImageFlagArray ImageFlags = 1 << 0

	// ImageFlagCubeMap marks a 3D image as six square faces in the
	// +X, -X, +Y, -Y, +Z, -Z order. Combined with ImageFlagArray the
	// image is a stack of cube maps and the face count is a multiple of
	// six.
	ImageFlagCubeMap ImageFlags = 1 << 1
)

// validate checks a flag/size combination for structural validity at
// the given dimensionality. Re-validating an already valid combination
// never fails.
func (f ImageFlags) validate(dims int, size Vec3) error {
	if f&ImageFlagCubeMap == 0 {
		return nil
	}
	if dims != 3 {
		return ErrCubeMapNot3D
	}
	if size.X != size.Y {
		return fmt.Errorf("%w: %dx%d", ErrCubeMapFaceSize, size.X, size.Y)
	}
	if f&ImageFlagArray != 0 {
		if size.Z <= 0 || size.Z%6 != 0 {
			return fmt.Errorf("%w: expected a positive multiple of 6, got %d", ErrCubeMapFaceCount, size.Z)
		}
	} else if size.Z != 6 {
		return fmt.Errorf("%w: expected 6, got %d", ErrCubeMapFaceCount, size.Z)
	}
	return nil
}

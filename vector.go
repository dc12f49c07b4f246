package texel

// Vec3 is a three-component integer vector used for image sizes, skip
// parameters and compressed block sizes.
//
// For sizes, axes beyond an image's dimensionality are 1; for skips and
// offsets they are 0. The Size1, Size2 and Size3 constructors produce
// correctly padded size vectors.
type Vec3 struct {
	X, Y, Z int
}

// Size1 returns a size vector for a 1D image of the given width.
func Size1(w int) Vec3 { return Vec3{w, 1, 1} }

// Size2 returns a size vector for a 2D image of the given extents.
func Size2(w, h int) Vec3 { return Vec3{w, h, 1} }

// Size3 returns a size vector for a 3D image of the given extents.
func Size3(w, h, d int) Vec3 { return Vec3{w, h, d} }

// Product returns the product of all three components.
func (v Vec3) Product() int { return v.X * v.Y * v.Z }

// Sum returns the sum of all three components.
func (v Vec3) Sum() int { return v.X + v.Y + v.Z }

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool { return v == Vec3{} }

// component returns the component for the given axis (0 = X, 1 = Y, 2 = Z).
func (v Vec3) component(axis int) int {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// ceilDiv returns a/b rounded up. b must be positive.
func ceilDiv(a, b int) int { return (a + b - 1) / b }

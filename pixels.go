package texel

// Pixels is a strided multi-dimensional view over the raw data of an
// uncompressed image. It is a precomputed addressing descriptor, not a
// copy: indexing resolves to subslices of the image's backing buffer.
//
// The view has one axis more than the image has dimensions; the extra,
// innermost axis is the raw bytes of a single pixel. Axes are ordered
// coarsest first, so a 2D view has axes (row, pixel, byte). Strides
// account for row alignment padding and explicit row-length/image-height
// overrides, and the view base is advanced past the skip prefix.
//
// The view does not tie the stored format to any concrete pixel type;
// reinterpreting the trailing byte axis is the caller's responsibility.
type Pixels struct {
	data   []byte
	base   int
	dims   int
	count  [4]int
	stride [4]int
}

// newPixels builds the strided descriptor for an image with the given
// layout. An empty buffer produces an empty view.
func newPixels(data []byte, dims, pixelSize int, storage PixelStorage, size Vec3) Pixels {
	if len(data) == 0 {
		return Pixels{}
	}
	p := storage.DataProperties(pixelSize, size)

	base := p.Offset.X
	if dims >= 2 {
		base += p.Offset.Y
	}
	if dims >= 3 {
		base += p.Offset.Z
	}

	v := Pixels{data: data, base: base, dims: dims}
	// Axes coarsest first: slice, row, pixel, byte. Leading axes beyond
	// the image's dimensionality are dropped.
	axes := [4]struct{ count, stride int }{
		{size.Z, p.Extent.X * p.Extent.Y},
		{size.Y, p.Extent.X},
		{size.X, pixelSize},
		{pixelSize, 1},
	}
	for i := 0; i <= dims; i++ {
		a := axes[3-dims+i]
		v.count[i] = a.count
		v.stride[i] = a.stride
	}
	return v
}

// IsEmpty reports whether the view has no backing data.
func (p Pixels) IsEmpty() bool { return p.data == nil }

// Dimensions returns the number of spatial dimensions. The view itself
// has Dimensions()+1 axes.
func (p Pixels) Dimensions() int { return p.dims }

// Counts returns the per-axis element counts, coarsest axis first. The
// last entry is the pixel size in bytes.
func (p Pixels) Counts() []int {
	if p.IsEmpty() {
		return nil
	}
	out := make([]int, p.dims+1)
	copy(out, p.count[:p.dims+1])
	return out
}

// Strides returns the per-axis byte strides, coarsest axis first. The
// last entry is always 1.
func (p Pixels) Strides() []int {
	if p.IsEmpty() {
		return nil
	}
	out := make([]int, p.dims+1)
	copy(out, p.stride[:p.dims+1])
	return out
}

// PixelSize returns the byte size of one pixel, the count of the
// innermost axis.
func (p Pixels) PixelSize() int {
	if p.IsEmpty() {
		return 0
	}
	return p.count[p.dims]
}

// At returns the bytes of a single pixel. Coordinates are given finest
// first (x), (x, y) or (x, y, z) matching the view's dimensionality;
// out-of-range coordinates or a coordinate count mismatch panic.
func (p Pixels) At(coords ...int) []byte {
	if len(coords) != p.dims {
		panic("texel: coordinate count does not match view dimensions")
	}
	off := p.base
	for i, c := range coords {
		axis := p.dims - 1 - i
		if c < 0 || c >= p.count[axis] {
			panic("texel: pixel coordinate out of range")
		}
		off += c * p.stride[axis]
	}
	size := p.PixelSize()
	return p.data[off : off+size : off+size]
}

// Row returns the contiguous bytes of one row of pixels, i.e. the
// innermost spatial axis. Coordinates select the row: none for 1D
// images, (y) for 2D, (y, z) for 3D. The returned slice spans exactly
// count*pixelSize bytes and excludes any alignment padding.
func (p Pixels) Row(coords ...int) []byte {
	if len(coords) != p.dims-1 {
		panic("texel: coordinate count does not match view dimensions")
	}
	off := p.base
	for i, c := range coords {
		axis := p.dims - 2 - i
		if c < 0 || c >= p.count[axis] {
			panic("texel: row coordinate out of range")
		}
		off += c * p.stride[axis]
	}
	length := p.count[p.dims-1] * p.stride[p.dims-1]
	return p.data[off : off+length : off+length]
}

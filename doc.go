// Package texel provides typed image and pixel-data containers with
// precise byte-layout semantics for the gogpu family.
//
// # Overview
//
// The heart of the package is the pixel storage model: PixelStorage and
// CompressedPixelStorage describe how a flat byte buffer encodes a 1D,
// 2D or 3D pixel region via row alignment, row length, image height and
// a three-axis skip, following the classic GL pixel store conventions.
// All byte offsets, strides and minimum buffer sizes derive from one
// place, DataProperties, so CPU-side images, GPU-buffer-backed images
// and externally owned views all agree on the layout.
//
// On top of the layout engine the package layers ownership and
// mutability:
//
//   - Image and CompressedImage own their pixel data.
//   - ImageView and CompressedImageView reference externally owned data,
//     either read-only or mutable.
//   - ImageData holds either shape behind one type and is the common
//     currency between loaders, converters and uploaders.
//   - Pixels is a strided per-pixel view for direct CPU access that
//     honors alignment padding and skips.
//
// GPU-buffer-backed containers live in the gpuimage sub-package, format
// adapters for gogpu texture formats in gpuformat, and conversions to
// and from the standard library image types in interop.
//
// # Errors and contracts
//
// Conditions an embedder cannot always guarantee up front, such as a
// loader-supplied buffer being large enough for a declared layout, are
// reported as errors. Violations of structural contracts, such as
// calling an uncompressed-only accessor on compressed ImageData or
// querying compressed layout with unresolved block parameters, panic.
package texel

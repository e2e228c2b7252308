// Package wavmeta reads and writes the musical metadata embedded in
// RIFF/WAVE files: the tempo stored in acid chunks and the root note stored
// in inst and smpl chunks.
//
// The package works at chunk granularity. DecodeContainer captures every
// chunk of a file verbatim, ApplyTags rewrites only the payload bytes a tag
// field owns, and EncodeContainer serializes the result with recomputed
// sizes, so audio data and unrelated chunks round-trip byte-for-byte.
// ReadTags and WriteTags wrap the same steps for files, with WriteTags
// replacing the destination atomically.
//
// The package never logs; unsupported layout variants of recognized chunks
// come back as Warning values and structural damage as errors wrapping
// ErrMalformedContainer.
package wavmeta

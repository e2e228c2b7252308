package wavmeta

import "bytes"

var (
	// CIDAcid is the chunk ID for the acid tempo/stretch chunk.
	CIDAcid = [4]byte{'a', 'c', 'i', 'd'}
	// CIDInst is the chunk ID for the instrument chunk.
	CIDInst = [4]byte{'i', 'n', 's', 't'}
	// CIDSmpl is the chunk ID for the sampler chunk.
	CIDSmpl = [4]byte{'s', 'm', 'p', 'l'}
)

// Chunk stores a single RIFF chunk for round-trip preservation. The payload
// is kept as opaque bytes whether or not the chunk ID is recognized.
type Chunk struct {
	ID [4]byte
	// Size mirrors len(Data) for parsed chunks. The encoder never trusts
	// it and always recomputes the size from the payload.
	Size uint32
	Data []byte
	// Pad holds the alignment byte exactly as read (zero or one byte), so
	// that a non-zero pad survives a rewrite. Chunks built in memory leave
	// it empty and get a zero pad on encode when the payload is odd.
	Pad []byte
}

// IDString returns the chunk ID as text, without NUL padding.
func (c *Chunk) IDString() string {
	return chunkIDString(c.ID)
}

// Footprint returns the number of bytes the chunk occupies on disk,
// including its 8-byte header and the alignment pad.
func (c *Chunk) Footprint() uint32 {
	n := 8 + uint32(len(c.Data))
	if len(c.Data)%2 == 1 {
		n++
	}

	return n
}

func (c *Chunk) Clone() *Chunk {
	out := *c
	out.Data = append([]byte(nil), c.Data...)
	out.Pad = append([]byte(nil), c.Pad...)

	return &out
}

// Container is a fully parsed RIFF/WAVE file: the form type plus every
// chunk in file order. Duplicate chunk IDs are legal and order is kept.
type Container struct {
	Form   [4]byte
	Chunks []*Chunk
}

// NewContainer returns an empty container with the WAVE form type.
func NewContainer() *Container {
	return &Container{Form: [4]byte{'W', 'A', 'V', 'E'}}
}

func (c *Container) Clone() *Container {
	out := &Container{Form: c.Form}
	if len(c.Chunks) == 0 {
		return out
	}

	out.Chunks = make([]*Chunk, len(c.Chunks))
	for i := range c.Chunks {
		out.Chunks[i] = c.Chunks[i].Clone()
	}

	return out
}

// Size returns the outer RIFF size the encoder will declare: the form type
// plus the on-disk footprint of every chunk.
func (c *Container) Size() uint32 {
	n := uint32(4)
	for _, ch := range c.Chunks {
		n += ch.Footprint()
	}

	return n
}

// Chunk returns the first chunk with the given ID, or nil. When duplicate
// IDs exist the first occurrence is authoritative; the rest pass through
// untouched.
func (c *Container) Chunk(id [4]byte) *Chunk {
	for _, ch := range c.Chunks {
		if ch.ID == id {
			return ch
		}
	}

	return nil
}

// Append adds a chunk at the end of the container.
func (c *Container) Append(ch *Chunk) {
	c.Chunks = append(c.Chunks, ch)
}

// InsertBefore inserts a chunk in front of the first chunk with the given
// ID, or appends it when no such chunk exists.
func (c *Container) InsertBefore(id [4]byte, ch *Chunk) {
	for i := range c.Chunks {
		if c.Chunks[i].ID == id {
			c.Chunks = append(c.Chunks, nil)
			copy(c.Chunks[i+1:], c.Chunks[i:])
			c.Chunks[i] = ch

			return
		}
	}

	c.Append(ch)
}

func chunkIDString(id [4]byte) string {
	return string(bytes.TrimRight(id[:], "\x00"))
}

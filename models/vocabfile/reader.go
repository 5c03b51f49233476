package vocabfile

import (
	"encoding/binary"
	"io"

	"github.com/gomlx/go-fst-tokenizer/automaton"
	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

// Reader is a compiled vocabulary opened read-only from disk. It is safe
// for concurrent use: every field is immutable after Open returns.
//
// Grounded on models/gguf.Reader and models/safetensor.Reader in the
// teacher: open the file once via golang.org/x/exp/mmap, read the header,
// then materialize the sections a caller actually needs.
type Reader struct {
	raw   *mmap.ReaderAt
	unkID int32
}

// Open opens the compiled vocabulary at path.
func Open(path string) (*Reader, error) {
	raw, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "mmapping %q", path)
	}
	return &Reader{raw: raw}, nil
}

// Close releases the underlying memory mapping.
func (r *Reader) Close() error {
	return r.raw.Close()
}

func (r *Reader) readAt(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := r.raw.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if read != n {
		return nil, errors.Errorf("vocabfile: short read at offset %d: got %d bytes, want %d", off, read, n)
	}
	return buf, nil
}

// UnkID returns the unknown-span identifier the file was compiled with.
func (r *Reader) UnkID() (int32, error) {
	h, err := r.readHeader()
	if err != nil {
		return 0, err
	}
	return h.unkID, nil
}

func (r *Reader) readHeader() (header, error) {
	buf, err := r.readAt(0, headerSize)
	if err != nil {
		return header{}, errors.Wrap(err, "reading header")
	}
	h, err := decodeHeader(buf)
	if err != nil {
		return header{}, err
	}
	return h, nil
}

// getSymbol reads one symbol of the given width from buf's front.
func getSymbol[S automaton.Symbol](buf []byte, width uint8) S {
	if width == symbolWidthByte {
		return S(buf[0])
	}
	return S(binary.LittleEndian.Uint16(buf))
}

// Load parses the full file into an automaton.Table plus the vocabulary
// entries needed to build a fstbpe.Vocabulary, failing with
// fstbpe.ErrCorruptModel-shaped errors (wrapped, so callers use errors.Cause
// or string inspection -- the sentinel itself lives in fstbpe to avoid this
// package importing the segmentation core).
func Load[S automaton.Symbol](r *Reader) (*automaton.Table[S], []automaton.Entry[S], int32, error) {
	h, err := r.readHeader()
	if err != nil {
		return nil, nil, 0, err
	}

	symWidth, err := symbolWidthOf[S]()
	if err != nil {
		return nil, nil, 0, err
	}
	if symWidth != h.symbolWidth {
		return nil, nil, 0, errors.Errorf("vocabfile: file symbol width %d does not match requested type width %d", h.symbolWidth, symWidth)
	}

	off := int64(headerSize)

	bitsetLen := finalsBitsetSize(h.numStates)
	bitset, err := r.readAt(off, bitsetLen)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "reading finals bitset")
	}
	off += int64(bitsetLen)

	finals := make([]bool, h.numStates)
	for i := range finals {
		finals[i] = bitset[i/8]&(1<<uint(i%8)) != 0
	}

	edges := make([]automaton.RawEdge[S], h.numEdges)
	for i := range edges {
		buf, err := r.readAt(off, edgeRecordSize)
		if err != nil {
			return nil, nil, 0, errors.Wrapf(err, "reading edge %d", i)
		}
		edges[i] = automaton.RawEdge[S]{
			From:   int32(binary.LittleEndian.Uint32(buf[0:4])),
			Sym:    S(binary.LittleEndian.Uint32(buf[4:8])),
			To:     int32(binary.LittleEndian.Uint32(buf[8:12])),
			Weight: int32(binary.LittleEndian.Uint32(buf[12:16])),
		}
		off += edgeRecordSize
	}

	sumToID := make(map[int32]int32, h.numSumEntries)
	for i := uint32(0); i < h.numSumEntries; i++ {
		buf, err := r.readAt(off, sumEntrySize)
		if err != nil {
			return nil, nil, 0, errors.Wrapf(err, "reading sum-to-id entry %d", i)
		}
		sum := int32(binary.LittleEndian.Uint32(buf[0:4]))
		id := int32(binary.LittleEndian.Uint32(buf[4:8]))
		sumToID[sum] = id
		off += sumEntrySize
	}

	entries := make([]automaton.Entry[S], h.numVocabEntries)
	for i := uint32(0); i < h.numVocabEntries; i++ {
		head, err := r.readAt(off, 8)
		if err != nil {
			return nil, nil, 0, errors.Wrapf(err, "reading vocab entry %d header", i)
		}
		id := int32(binary.LittleEndian.Uint32(head[0:4]))
		length := binary.LittleEndian.Uint32(head[4:8])
		off += 8

		tokenBytes, err := r.readAt(off, int(length)*int(symWidth))
		if err != nil {
			return nil, nil, 0, errors.Wrapf(err, "reading vocab entry %d token", i)
		}
		off += int64(len(tokenBytes))

		token := make([]S, length)
		for j := range token {
			token[j] = getSymbol[S](tokenBytes[int(j)*int(symWidth):], symWidth)
		}
		entries[i] = automaton.Entry[S]{Token: token, ID: id}
	}

	tbl, err := automaton.FromRaw(int(h.numStates), edges, finals, sumToID)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "reconstructing automaton table")
	}

	return tbl, entries, h.unkID, nil
}

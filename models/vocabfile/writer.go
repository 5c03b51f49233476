package vocabfile

import (
	"encoding/binary"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/gomlx/go-fst-tokenizer/automaton"
	"github.com/pkg/errors"
)

// symbolWidthOf returns the on-disk width tag for S.
func symbolWidthOf[S automaton.Symbol]() (uint8, error) {
	var zero S
	switch any(zero).(type) {
	case byte:
		return symbolWidthByte, nil
	case uint16:
		return symbolWidthUint16, nil
	default:
		return 0, errors.New("vocabfile: unsupported symbol type")
	}
}

// Write compiles tbl and entries (the same entries used to build tbl, kept
// for the id->bytes decode table) into path, truncating and overwriting
// any existing file.
//
// Grounded on how the teacher's model loaders treat large files: the
// destination is truncated to its final size up front and written through
// an mmap-go mapping rather than through buffered Seek/Write calls.
func Write[S automaton.Symbol](path string, tbl *automaton.Table[S], entries []automaton.Entry[S], unkID int32) error {
	symWidth, err := symbolWidthOf[S]()
	if err != nil {
		return err
	}

	edges := tbl.Edges()
	finals := tbl.Finals()
	sumToID := tbl.SumToID()

	vocabSize := 0
	for _, e := range entries {
		vocabSize += 4 + 4 + len(e.Token)*int(symWidth)
	}

	size := headerSize + finalsBitsetSize(uint32(len(finals))) +
		len(edges)*edgeRecordSize + len(sumToID)*sumEntrySize + vocabSize

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "creating %q", path)
	}
	defer f.Close()

	if err := f.Truncate(int64(size)); err != nil {
		return errors.Wrapf(err, "truncating %q to %d bytes", path, size)
	}

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return errors.Wrapf(err, "mmapping %q", path)
	}
	defer m.Unmap()

	h := header{
		symbolWidth:     symWidth,
		unkID:           unkID,
		numStates:       uint32(len(finals)),
		numEdges:        uint32(len(edges)),
		numSumEntries:   uint32(len(sumToID)),
		numVocabEntries: uint32(len(entries)),
	}
	off := copy(m, h.encode())

	bitset := m[off : off+finalsBitsetSize(h.numStates)]
	for i, isFinal := range finals {
		if isFinal {
			bitset[i/8] |= 1 << uint(i%8)
		}
	}
	off += len(bitset)

	for _, e := range edges {
		binary.LittleEndian.PutUint32(m[off:off+4], uint32(e.From))
		binary.LittleEndian.PutUint32(m[off+4:off+8], uint32(e.Sym))
		binary.LittleEndian.PutUint32(m[off+8:off+12], uint32(e.To))
		binary.LittleEndian.PutUint32(m[off+12:off+16], uint32(e.Weight))
		off += edgeRecordSize
	}

	for sum, id := range sumToID {
		binary.LittleEndian.PutUint32(m[off:off+4], uint32(sum))
		binary.LittleEndian.PutUint32(m[off+4:off+8], uint32(id))
		off += sumEntrySize
	}

	for _, e := range entries {
		binary.LittleEndian.PutUint32(m[off:off+4], uint32(e.ID))
		binary.LittleEndian.PutUint32(m[off+4:off+8], uint32(len(e.Token)))
		off += 8
		for _, sym := range e.Token {
			off += putSymbol(m[off:], sym, symWidth)
		}
	}

	return m.Flush()
}

// putSymbol writes sym at the front of buf using width bytes, returning the
// number of bytes written.
func putSymbol[S automaton.Symbol](buf []byte, sym S, width uint8) int {
	if width == symbolWidthByte {
		buf[0] = byte(sym)
		return 1
	}
	binary.LittleEndian.PutUint16(buf, uint16(sym))
	return 2
}

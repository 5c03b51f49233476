// Package vocabfile defines the on-disk container for a compiled
// automaton.Table: a small versioned binary format that a build step
// writes once and a serving process mmaps many times.
//
// Grounded on models/gguf/reader.go and models/safetensor/reader.go in the
// teacher: a fixed magic/version header followed by flat sections, opened
// read-only with golang.org/x/exp/mmap and built with github.com/edsrzf/mmap-go
// over the destination file truncated to its final size -- retargeted from tensor weights to a
// DFA/Mealy transducer table.
package vocabfile

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// magic identifies the file format; version allows the layout to evolve.
var magic = [4]byte{'F', 'S', 'T', '1'}

const formatVersion uint32 = 1

const (
	symbolWidthByte   uint8 = 1
	symbolWidthUint16 uint8 = 2
)

// headerSize is the fixed byte length of the header described below.
const headerSize = 4 + 4 + 1 + 3 + 4 + 4 + 4 + 4 + 4

// header lays out, in order: Magic[4] Version(u32) SymbolWidth(u8) _pad[3]
// UnkID(i32) NumStates(u32) NumEdges(u32) NumSumEntries(u32)
// NumVocabEntries(u32).
type header struct {
	symbolWidth     uint8
	unkID           int32
	numStates       uint32
	numEdges        uint32
	numSumEntries   uint32
	numVocabEntries uint32
}

func (h header) encode() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], formatVersion)
	buf[8] = h.symbolWidth
	binary.LittleEndian.PutUint32(buf[12:16], uint32(h.unkID))
	binary.LittleEndian.PutUint32(buf[16:20], h.numStates)
	binary.LittleEndian.PutUint32(buf[20:24], h.numEdges)
	binary.LittleEndian.PutUint32(buf[24:28], h.numSumEntries)
	binary.LittleEndian.PutUint32(buf[28:32], h.numVocabEntries)
	return buf
}

func decodeHeader(buf []byte) (header, error) {
	var h header
	if len(buf) < headerSize {
		return h, errors.Errorf("vocabfile: truncated header (%d bytes, want %d)", len(buf), headerSize)
	}
	if [4]byte(buf[0:4]) != magic {
		return h, errors.Errorf("vocabfile: bad magic %q", buf[0:4])
	}
	if v := binary.LittleEndian.Uint32(buf[4:8]); v != formatVersion {
		return h, errors.Errorf("vocabfile: unsupported format version %d", v)
	}
	h.symbolWidth = buf[8]
	if h.symbolWidth != symbolWidthByte && h.symbolWidth != symbolWidthUint16 {
		return h, errors.Errorf("vocabfile: unknown symbol width %d", h.symbolWidth)
	}
	h.unkID = int32(binary.LittleEndian.Uint32(buf[12:16]))
	h.numStates = binary.LittleEndian.Uint32(buf[16:20])
	h.numEdges = binary.LittleEndian.Uint32(buf[20:24])
	h.numSumEntries = binary.LittleEndian.Uint32(buf[24:28])
	h.numVocabEntries = binary.LittleEndian.Uint32(buf[28:32])
	return h, nil
}

// finalsBitsetSize returns the number of bytes needed to hold numStates
// one-bit finality flags.
func finalsBitsetSize(numStates uint32) int {
	return int((numStates + 7) / 8)
}

const edgeRecordSize = 16 // From(u32) Sym(u32) To(u32) Weight(i32)

const sumEntrySize = 8 // Sum(i32) ID(i32)

package board

import (
	"bytes"
	"encoding/gob"
)

// wireBoard mirrors Board's fields in exported form, since gob cannot see
// unexported fields directly; used only at the ipc serialization boundary
// (internal/ipc sends Records containing Boards across the self-play
// worker -> trainer Unix socket).
type wireBoard struct {
	Size, K, ToMove int
	Plane0, Plane1  []uint64
	N               int
}

// GobEncode implements gob.GobEncoder.
func (b Board) GobEncode() ([]byte, error) {
	w := wireBoard{
		Size:   b.size,
		K:      b.k,
		ToMove: b.toMove,
		Plane0: append([]uint64(nil), b.planes[0].words...),
		Plane1: append([]uint64(nil), b.planes[1].words...),
		N:      b.planes[0].n,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (b *Board) GobDecode(data []byte) error {
	var w wireBoard
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	b.size = w.Size
	b.k = w.K
	b.toMove = w.ToMove
	b.planes[0] = bitset{words: w.Plane0, n: w.N}
	b.planes[1] = bitset{words: w.Plane1, n: w.N}
	return nil
}

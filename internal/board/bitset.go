package board

import "math/bits"

// bitset is a minimal fixed-size bit vector backed by uint64 words, enough
// to represent one S×S occupancy plane without pulling in a third-party
// bitset library for what is inherent grid arithmetic (no dependency in the
// retrieval pack implements generic m-n-k board rules — see DESIGN.md).
type bitset struct {
	words []uint64
	n     int
}

func newBitset(n int) bitset {
	return bitset{words: make([]uint64, (n+63)/64), n: n}
}

func (b bitset) get(i int) bool {
	return b.words[i/64]&(uint64(1)<<uint(i%64)) != 0
}

func (b bitset) set(i int) {
	b.words[i/64] |= uint64(1) << uint(i%64)
}

func (b bitset) clone() bitset {
	w := make([]uint64, len(b.words))
	copy(w, b.words)
	return bitset{words: w, n: b.n}
}

func (b bitset) popcount() int {
	total := 0
	for _, w := range b.words {
		total += bits.OnesCount64(w)
	}
	return total
}

func (b bitset) equal(o bitset) bool {
	if b.n != o.n || len(b.words) != len(o.words) {
		return false
	}
	for i := range b.words {
		if b.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

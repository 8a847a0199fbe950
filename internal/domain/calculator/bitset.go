package calculator

// bitset marks used player ids. The search never mutates a bitset it was
// handed; with returns a modified copy.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) has(i int) bool { return b[i>>6]&(1<<(uint(i)&63)) != 0 }

func (b bitset) set(i int) { b[i>>6] |= 1 << (uint(i) & 63) }

func (b bitset) with(i int) bitset {
	c := make(bitset, len(b))
	copy(c, b)
	c.set(i)
	return c
}

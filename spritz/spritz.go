// Package spritz implements the Spritz sponge-like stream cipher and
// hash described in https://people.csail.mit.edu/rivest/pubs/RS14.pdf
//
// The same 256-byte permutation state drives both modes: hashing
// absorbs a message and squeezes a digest, streaming absorbs a key and
// squeezes a keystream.  On top of the raw sponge this package provides
// implementations of hash.Hash and cipher.Stream, so spritz will be
// easy to use if you are familiar with the way the standard hashes and
// ciphers work.
package spritz

// nothing in this file is public... it is the internal machinery
// driving the hash and stream implementations in the other files.

type state struct {
	i, j, k, z, a, w byte
	s                [256]byte
}

// initialize puts the sponge in its starting position: every cursor at
// zero, w at 1, and s the identity permutation.  The cursors are byte
// typed on purpose: all of their arithmetic has to wrap at 256, and
// native overflow does that for free.
func initialize(ss *state) {
	ss.i, ss.j, ss.k, ss.z, ss.a = 0, 0, 0, 0, 0
	ss.w = 1
	for i := range ss.s {
		ss.s[i] = byte(i)
	}
}

// absorb takes input a nibble at a time, low nibble first.  This
// matches the paper and is load-bearing: a byte-wise absorb produces
// different digests.
func absorb(ss *state, b byte) {
	absorbNibble(ss, b&0x0F)
	absorbNibble(ss, b>>4)
}

func absorbMany(ss *state, bs []byte) {
	for _, b := range bs {
		absorbNibble(ss, b&0x0F)
		absorbNibble(ss, b>>4)
	}
}

func swap(arr *[256]byte, e1 int, e2 int) {
	arr[e1], arr[e2] = arr[e2], arr[e1]
}

func absorbNibble(ss *state, x byte) {
	if ss.a == 256/2 {
		shuffle(ss)
	}
	swap(&ss.s, int(ss.a), int(256/2+x))
	ss.a++
}

// absorbStop burns one absorption slot without touching s.  It acts as
// a domain separator between absorbed fields, so that e.g. the message
// and the digest-length byte can never be confused for one input.
func absorbStop(ss *state) {
	if ss.a == 256/2 {
		shuffle(ss)
	}
	ss.a++
}

func whip(ss *state) {
	update(ss, 512)
	// w has to stay coprime to 256, i.e. odd.  With N a power of two,
	// adding 2 is exactly the "next coprime" search from the paper.
	ss.w += 2
}

func crush(ss *state) {
	for v := 0; v < 128; v++ {
		if ss.s[v] > ss.s[256-1-v] {
			swap(&ss.s, v, 256-1-v)
		}
	}
}

// shuffle is the full re-mix, run whenever the absorb counter fills or
// before output is squeezed.  The whip/crush sequence and the 2*256
// step count are fixed by the paper.
func shuffle(ss *state) {
	whip(ss)
	crush(ss)
	whip(ss)
	crush(ss)
	whip(ss)
	ss.a = 0
}

func update(ss *state, amt int) {
	// make local copies of the variables
	// because it helps the optimizer
	var mi byte = ss.i
	var mj byte = ss.j
	var mk byte = ss.k
	var mw byte = ss.w

	for amt > 0 {
		mi += mw
		smi := ss.s[mi]
		mj = mk + ss.s[mj+smi]
		smj := ss.s[mj]
		mk = mi + mk + smj
		ss.s[mi] = smj
		ss.s[mj] = smi
		amt--
	}

	// store the final values of the locals
	// saved at the top of the function
	ss.i = mi
	ss.j = mj
	ss.k = mk
}

func drip(ss *state) byte {
	if ss.a > 0 {
		shuffle(ss)
	}
	update(ss, 1)
	ss.z = ss.s[ss.j+ss.s[ss.i+ss.s[ss.z+ss.k]]]
	return ss.z
}

func dripMany(ss *state, bs []byte) {
	for idx := range bs {
		bs[idx] = drip(ss)
	}
}

// squeeze shuffles any pending absorbed input once up front, then
// drips n bytes into a fresh buffer.  drip repeats the a > 0 check so
// it stays safe to call on its own; after the shuffle here that check
// is a no-op.
func squeeze(ss *state, n int) []byte {
	if ss.a > 0 {
		shuffle(ss)
	}
	out := make([]byte, n)
	dripMany(ss, out)
	return out
}

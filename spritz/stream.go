package spritz

// ---------------------------------------
// provide a Stream cipher interface
// consistent with the standard golang
// packages
// ---------------------------------------

import "crypto/cipher"

// Keystream returns the first n bytes of the Spritz keystream for the
// given key: the sponge absorbs the key and then squeezes n bytes.
// Combining the keystream with plaintext (typically XOR) is the
// caller's business; XORKeyStream below is exactly such a caller.
// n == 0 yields an empty slice.
func Keystream(key []byte, n int) []byte {
	st := new(state)
	initialize(st)
	absorbMany(st, key)
	return squeeze(st, n)
}

func (s *state) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("Bad args to XORKeyStream!")
	}
	for idx, v := range src {
		dst[idx] = v ^ drip(s)
	}
}

// NewStream builds a cipher.Stream from a password and IV.  The
// password is strengthened to a 512-bit key by hashing; the IV is
// absorbed after a stop marker so that (password, IV) pairs never
// collide across field boundaries.
func NewStream(password string, iv []byte) cipher.Stream {
	st := new(state)
	initialize(st)
	key := Sum(512, []byte(password))
	absorbMany(st, key)
	absorbStop(st)
	absorbMany(st, iv)
	return st
}

// keygen hashes and re-hashes the same data many times, to slow down
// brute-force attacks on the password.  N.B.: it destroys the IV.
func keygen(pw string, iv []byte, times int) []byte {
	ans := Sum(512, []byte(pw))
	cipher := new(state)

	for idx := 0; idx < times; idx++ {
		initialize(cipher)
		absorbMany(cipher, iv)
		iv[0]++
		if iv[0] == 0 {
			iv[1]++
			if iv[1] == 0 {
				iv[2]++
				if iv[2] == 0 {
					iv[3]++
				}
			}
		}
		absorbStop(cipher)
		absorbMany(cipher, ans)
		dripMany(cipher, ans)
	}

	return ans
}

package cipher

import "github.com/stblake/quagmire/utils"

const last = utils.AlphabetSize - 1

// Encrypt writes the encryption of pt under s into dst, which must be at
// least as long as pt. Symbol i uses cycleword slot i mod L:
//
//	c = ct[(ptIndex[p] + ctIndex[w]) mod 26]
//
// Beaufort reflects the cycleword value w and the output symbol.
func Encrypt(dst, pt []int, s *State, beaufort bool) {
	ptInv := s.Plaintext.Index()
	ctInv := s.Ciphertext.Index()
	ck := &s.Ciphertext
	cw := s.Cycleword
	L := len(cw)
	for i, p := range pt {
		w := cw[i%L]
		if beaufort {
			w = last - w
		}
		c := ck[(ptInv[p]+ctInv[w])%utils.AlphabetSize]
		if beaufort {
			c = last - c
		}
		dst[i] = c
	}
}

// Decrypt is the inverse of Encrypt. Beaufort reflects the input symbol and
// the cycleword value, so straight Beaufort decrypts to w - c.
func Decrypt(dst, ct []int, s *State, beaufort bool) {
	ctInv := s.Ciphertext.Index()
	pk := &s.Plaintext
	cw := s.Cycleword
	L := len(cw)
	for i, c := range ct {
		w := cw[i%L]
		if beaufort {
			w = last - w
			c = last - c
		}
		dst[i] = pk[(ctInv[c]-ctInv[w]+utils.AlphabetSize)%utils.AlphabetSize]
	}
}

// Decipher recovers plaintext from ct. Variant ciphers were produced with the
// decrypting direction, so they are deciphered with Encrypt.
func Decipher(dst, ct []int, s *State, variant, beaufort bool) {
	if variant {
		Encrypt(dst, ct, s, beaufort)
		return
	}
	Decrypt(dst, ct, s, beaufort)
}

// Encipher is the inverse of Decipher.
func Encipher(dst, pt []int, s *State, variant, beaufort bool) {
	if variant {
		Decrypt(dst, pt, s, beaufort)
		return
	}
	Encrypt(dst, pt, s, beaufort)
}

// Reflect is the Atbash map used by Beaufort.
func Reflect(c int) int {
	return last - c
}

package crib

import (
	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/utils"
)

type pair struct {
	ct, pt int
}

// Constrainer fixes cycleword slots from cribs once the keywords are known.
// It is built once per cipher text, crib and cycleword length and is not
// safe for concurrent use.
type Constrainer struct {
	slots   [][]pair
	scratch []int
	empty   bool
}

func NewConstrainer(ct []int, c Crib, L int) *Constrainer {
	k := &Constrainer{
		slots:   make([][]pair, L),
		scratch: make([]int, L),
		empty:   len(c) == 0,
	}
	for _, e := range c {
		k.slots[e.Pos%L] = append(k.slots[e.Pos%L], pair{ct: ct[e.Pos], pt: e.Letter})
	}
	return k
}

// Solve sets every cycleword slot covered by a crib to the value that makes
// Decipher reproduce the crib. It reports a contradiction when two cribs
// demand different values for one slot, in which case s is left unchanged.
func (k *Constrainer) Solve(s *cipher.State, variant, beaufort bool) (contradiction bool) {
	if k.empty {
		return false
	}
	ptInv := s.Plaintext.Index()
	ctInv := s.Ciphertext.Index()
	ck := &s.Ciphertext
	copy(k.scratch, s.Cycleword)

	for slot, pairs := range k.slots {
		implied := -1
		for _, pr := range pairs {
			var w int
			if variant {
				p := pr.pt
				if beaufort {
					p = cipher.Reflect(p)
				}
				w = ck[(ctInv[p]-ptInv[pr.ct]+utils.AlphabetSize)%utils.AlphabetSize]
			} else {
				c := pr.ct
				if beaufort {
					c = cipher.Reflect(c)
				}
				w = ck[(ctInv[c]-ptInv[pr.pt]+utils.AlphabetSize)%utils.AlphabetSize]
			}
			if beaufort {
				w = cipher.Reflect(w)
			}
			if implied < 0 {
				implied = w
			} else if implied != w {
				return true
			}
		}
		if implied >= 0 {
			k.scratch[slot] = implied
		}
	}
	copy(s.Cycleword, k.scratch)
	return false
}

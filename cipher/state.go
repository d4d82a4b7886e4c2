package cipher

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/stblake/quagmire/utils"
)

// State is one point in the key space. States are copied by value; the
// cycleword is never shared between two states.
type State struct {
	Plaintext  Keyword
	Ciphertext Keyword
	Cycleword  []int
}

func NewState(cyclewordLen int) *State {
	return &State{
		Plaintext:  Straight(),
		Ciphertext: Straight(),
		Cycleword:  make([]int, cyclewordLen),
	}
}

func (s *State) Clone() *State {
	out := &State{
		Plaintext:  s.Plaintext,
		Ciphertext: s.Ciphertext,
		Cycleword:  make([]int, len(s.Cycleword)),
	}
	copy(out.Cycleword, s.Cycleword)
	return out
}

// CopyFrom overwrites s with src, reusing the cycleword storage when the
// lengths agree.
func (s *State) CopyFrom(src *State) {
	s.Plaintext = src.Plaintext
	s.Ciphertext = src.Ciphertext
	if len(s.Cycleword) != len(src.Cycleword) {
		s.Cycleword = make([]int, len(src.Cycleword))
	}
	copy(s.Cycleword, src.Cycleword)
}

// PerturbCycleword overwrites one random slot with a random letter.
func (s *State) PerturbCycleword(rng *rand.Rand) {
	if len(s.Cycleword) == 0 {
		return
	}
	s.Cycleword[rng.Intn(len(s.Cycleword))] = rng.Intn(utils.AlphabetSize)
}

// RandomState draws a fresh state for a cipher of this type with the given
// keyword and cycleword lengths.
func (sp Spec) RandomState(rng *rand.Rand, ptLen, ctLen, cyclewordLen int) *State {
	s := NewState(cyclewordLen)
	switch sp.Plaintext {
	case RoleFree:
		s.Plaintext = RandomKeyword(rng, ptLen)
	case RoleFixed:
		s.Plaintext = sp.PlaintextKey
	}
	switch sp.Ciphertext {
	case RoleFree:
		s.Ciphertext = RandomKeyword(rng, ctLen)
	case RoleFixed:
		s.Ciphertext = sp.CiphertextKey
	case RoleTied:
		s.Ciphertext = s.Plaintext
	}
	for i := range s.Cycleword {
		s.Cycleword[i] = rng.Intn(utils.AlphabetSize)
	}
	return s
}

// PerturbKeyword perturbs the free keyword of s; when both are free a coin
// decides which. Tied keywords follow the plaintext keyword. It returns false
// when the type has no free keyword.
func (sp Spec) PerturbKeyword(rng *rand.Rand, s *State, ptLen, ctLen int, weighted bool) bool {
	switch {
	case sp.Plaintext == RoleFree && sp.Ciphertext == RoleFree:
		if rng.Intn(2) == 0 {
			s.Plaintext.Perturb(rng, ptLen, weighted)
		} else {
			s.Ciphertext.Perturb(rng, ctLen, weighted)
		}
	case sp.Plaintext == RoleFree:
		s.Plaintext.Perturb(rng, ptLen, weighted)
	case sp.Ciphertext == RoleFree:
		s.Ciphertext.Perturb(rng, ctLen, weighted)
	default:
		return false
	}
	if sp.Ciphertext == RoleTied {
		s.Ciphertext = s.Plaintext
	}
	return true
}

// Tableau renders the cipher alphabet selected by every cycleword slot,
// under a header of the plaintext keyword.
func (s *State) Tableau(beaufort bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "    %s\n", s.Plaintext)
	row := make([]int, utils.AlphabetSize)
	pt := s.Plaintext[:]
	for slot, cw := range s.Cycleword {
		one := State{Plaintext: s.Plaintext, Ciphertext: s.Ciphertext, Cycleword: []int{cw}}
		for i, p := range pt {
			var out [1]int
			Encrypt(out[:], []int{p}, &one, beaufort)
			row[i] = out[0]
		}
		fmt.Fprintf(&sb, "%2d %c %s\n", slot, byte('A'+cw), utils.Chr(row))
	}
	return sb.String()
}

func (s *State) String() string {
	return fmt.Sprintf("pt=%s ct=%s cw=%s", s.Plaintext, s.Ciphertext, utils.Chr(s.Cycleword))
}

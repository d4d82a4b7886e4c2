package cipher

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Type int

const (
	Vigenere Type = iota
	Quagmire1
	Quagmire2
	Quagmire3
	Quagmire4
	Beaufort
)

// Role says where a keyword comes from.
type Role int

const (
	// RoleStraight keywords are the plain alphabet.
	RoleStraight Role = iota
	// RoleFree keywords are searched.
	RoleFree
	// RoleTied keywords always equal the plaintext keyword.
	RoleTied
	// RoleFixed keywords are given up front and never perturbed.
	RoleFixed
)

// LengthRule says which keyword lengths are tried for a keyword.
type LengthRule int

const (
	// LengthSwept keywords are tried at every length in the configured range.
	LengthSwept LengthRule = iota
	// LengthNominal keywords are straight and reported with length 1.
	LengthNominal
	// LengthCycleword keywords take the cycleword length.
	LengthCycleword
	// LengthTied keywords take the plaintext keyword length.
	LengthTied
	// LengthFixed keywords take the length of the given keyword.
	LengthFixed
)

// Spec holds the structural facts of a cipher type. Everything that differs
// between types is read from here.
type Spec struct {
	Type Type
	Name string

	Plaintext  Role
	Ciphertext Role

	PlaintextLength  LengthRule
	CiphertextLength LengthRule

	// Beaufort reflects cycleword values and the transformed symbol.
	Beaufort bool
	// Constrained types derive the cycleword from cribs after every keyword
	// change.
	Constrained bool

	// Set for Fixed keywords.
	PlaintextKey     Keyword
	CiphertextKey    Keyword
	PlaintextKeyLen  int
	CiphertextKeyLen int
}

var specs = [...]Spec{
	Vigenere: {
		Type: Vigenere, Name: "vigenere",
		Plaintext: RoleStraight, Ciphertext: RoleStraight,
		PlaintextLength: LengthCycleword, CiphertextLength: LengthCycleword,
	},
	Quagmire1: {
		Type: Quagmire1, Name: "quagmire1",
		Plaintext: RoleFree, Ciphertext: RoleStraight,
		PlaintextLength: LengthSwept, CiphertextLength: LengthNominal,
		Constrained: true,
	},
	Quagmire2: {
		Type: Quagmire2, Name: "quagmire2",
		Plaintext: RoleStraight, Ciphertext: RoleFree,
		PlaintextLength: LengthNominal, CiphertextLength: LengthSwept,
		Constrained: true,
	},
	Quagmire3: {
		Type: Quagmire3, Name: "quagmire3",
		Plaintext: RoleFree, Ciphertext: RoleTied,
		PlaintextLength: LengthSwept, CiphertextLength: LengthTied,
		Constrained: true,
	},
	Quagmire4: {
		Type: Quagmire4, Name: "quagmire4",
		Plaintext: RoleFree, Ciphertext: RoleFree,
		PlaintextLength: LengthSwept, CiphertextLength: LengthSwept,
		Constrained: true,
	},
	Beaufort: {
		Type: Beaufort, Name: "beaufort",
		Plaintext: RoleStraight, Ciphertext: RoleTied,
		PlaintextLength: LengthNominal, CiphertextLength: LengthNominal,
		Beaufort: true,
	},
}

// Types lists every supported type in numeric order.
func Types() []Type {
	out := make([]Type, len(specs))
	for i := range specs {
		out[i] = Type(i)
	}
	return out
}

func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(specs)
}

func (t Type) Spec() Spec {
	if !t.Valid() {
		panic(fmt.Sprintf("cipher: unknown type %d", int(t)))
	}
	return specs[t]
}

func (t Type) String() string {
	if !t.Valid() {
		return "type(" + strconv.Itoa(int(t)) + ")"
	}
	return specs[t].Name
}

// ParseType accepts a type number or name, e.g. "3" or "quagmire3".
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if t := Type(n); t.Valid() {
			return t, nil
		}
		return 0, fmt.Errorf("unknown cipher type %d", n)
	}
	for _, sp := range specs {
		if sp.Name == s {
			return sp.Type, nil
		}
	}
	return 0, fmt.Errorf("unknown cipher type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// HasFreeKeyword reports whether the search perturbs a keyword for this type.
func (sp Spec) HasFreeKeyword() bool {
	return sp.Plaintext == RoleFree || sp.Ciphertext == RoleFree
}

var ErrTiedKeyword = errors.New("keyword is tied to the plaintext keyword")

// WithPlaintextKeyword pins the plaintext keyword to word.
func (sp Spec) WithPlaintextKeyword(word string) (Spec, error) {
	k, n, err := NewKeyword(word)
	if err != nil {
		return sp, fmt.Errorf("plaintext keyword: %w", err)
	}
	sp.Plaintext, sp.PlaintextLength = RoleFixed, LengthFixed
	sp.PlaintextKey, sp.PlaintextKeyLen = k, n
	return sp, nil
}

// WithCiphertextKeyword pins the ciphertext keyword to word. Types whose
// ciphertext keyword is tied to the plaintext keyword reject this.
func (sp Spec) WithCiphertextKeyword(word string) (Spec, error) {
	if sp.Ciphertext == RoleTied {
		return sp, fmt.Errorf("%s: %w", sp.Name, ErrTiedKeyword)
	}
	k, n, err := NewKeyword(word)
	if err != nil {
		return sp, fmt.Errorf("ciphertext keyword: %w", err)
	}
	sp.Ciphertext, sp.CiphertextLength = RoleFixed, LengthFixed
	sp.CiphertextKey, sp.CiphertextKeyLen = k, n
	return sp, nil
}

package core

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLen is the length of an identity in bytes.
const AddressLen = 20

// Address identifies an account on the host ledger: an approver, a proposer or a
// recipient of a disbursement.
type Address [AddressLen]byte

var zeroAddress Address

// ParseAddress parses a hex-encoded address with an optional 0x prefix.
func ParseAddress(s string) (Address, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != AddressLen*2 {
		return Address{}, fmt.Errorf("invalid address %q", s)
	}
	var a Address
	if _, err := hex.Decode(a[:], []byte(raw)); err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return a, nil
}

// MustParseAddress is a ParseAddress that panics on malformed input.
// Intended for tests and static references.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) IsZero() bool {
	return a == zeroAddress
}

// ToRaw returns the canonical 0x-prefixed lowercase hex form.
func (a Address) ToRaw() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.ToRaw()
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.ToRaw()), nil
}

func (a *Address) UnmarshalText(data []byte) error {
	parsed, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

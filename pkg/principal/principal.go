// Package principal implements the textual form of Internet Computer
// principals: a CRC32 checksum prepended to the raw bytes, base32 encoded in
// lowercase without padding, and grouped by five characters separated by
// dashes.
package principal

import (
	"bytes"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
)

// MaxLength is the maximum number of raw bytes a principal may carry.
const MaxLength = 29

const (
	groupSize          = 5
	anonymousSuffix    = 0x04
	selfAuthenticating = 0x02
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// ErrInvalidText is returned when a string is not a canonical principal text.
var ErrInvalidText = errors.New("principal: invalid text")

// Principal is an opaque identifier for a canister or a user.
type Principal struct {
	raw []byte
}

// Anonymous is the principal used by unauthenticated callers.
var Anonymous = Principal{raw: []byte{anonymousSuffix}}

// Management is the management canister principal ("aaaaa-aa").
var Management = Principal{raw: []byte{}}

// FromBytes wraps raw principal bytes. The slice is copied.
func FromBytes(raw []byte) (Principal, error) {
	if len(raw) > MaxLength {
		return Principal{}, fmt.Errorf("principal: %d bytes exceeds maximum of %d", len(raw), MaxLength)
	}
	return Principal{raw: append([]byte{}, raw...)}, nil
}

// FromText decodes a canonical principal text.
func FromText(text string) (Principal, error) {
	canonical := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(text), "-", ""))
	if canonical == "" {
		return Principal{}, fmt.Errorf("%w: %q is empty", ErrInvalidText, text)
	}
	decoded, err := encoding.DecodeString(canonical)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %q: %v", ErrInvalidText, text, err)
	}
	if len(decoded) < crc32.Size {
		return Principal{}, fmt.Errorf("%w: %q is too short", ErrInvalidText, text)
	}
	p, err := FromBytes(decoded[crc32.Size:])
	if err != nil {
		return Principal{}, err
	}
	if p.String() != strings.ToLower(strings.TrimSpace(text)) {
		return Principal{}, fmt.Errorf("%w: %q does not have a valid checksum", ErrInvalidText, text)
	}
	return p, nil
}

// MustFromText is like FromText but panics on error. Intended for literals.
func MustFromText(text string) Principal {
	p, err := FromText(text)
	if err != nil {
		panic(err)
	}
	return p
}

// SelfAuthenticating derives the principal for a DER encoded public key from
// the supplied key digest (the caller hashes; this package stays crypto-free).
func SelfAuthenticating(digest []byte) (Principal, error) {
	if len(digest) > MaxLength-1 {
		return Principal{}, fmt.Errorf("principal: digest of %d bytes is too long", len(digest))
	}
	raw := append(append([]byte{}, digest...), selfAuthenticating)
	return Principal{raw: raw}, nil
}

// Bytes returns a copy of the raw principal bytes.
func (p Principal) Bytes() []byte {
	return append([]byte{}, p.raw...)
}

// Len reports the raw byte length.
func (p Principal) Len() int {
	return len(p.raw)
}

// IsAnonymous reports whether p is the anonymous principal.
func (p Principal) IsAnonymous() bool {
	return p.Equal(Anonymous)
}

// Equal compares two principals byte-wise.
func (p Principal) Equal(other Principal) bool {
	return bytes.Equal(p.raw, other.raw)
}

// String renders the canonical text form.
func (p Principal) String() string {
	buf := make([]byte, crc32.Size, crc32.Size+len(p.raw))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE(p.raw))
	buf = append(buf, p.raw...)

	encoded := strings.ToLower(encoding.EncodeToString(buf))
	var b strings.Builder
	for i := 0; i < len(encoded); i += groupSize {
		if i > 0 {
			b.WriteByte('-')
		}
		end := i + groupSize
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[i:end])
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Principal) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Principal) UnmarshalText(text []byte) error {
	decoded, err := FromText(string(text))
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

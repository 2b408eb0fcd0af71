package felt

import (
	"errors"
	"fmt"
)

// FeltLike covers Felt and every type declared on top of it
type FeltLike interface {
	~[Limbs]uint64
}

var ErrShortStringTooLong = errors.New("short string longer than 31 bytes")

func FromUint64[F FeltLike](v uint64) F {
	var f Felt
	f.SetUint64(v)
	return F(f)
}

func NewFromUint64[F FeltLike](v uint64) *F {
	f := FromUint64[F](v)
	return &f
}

func FromBytes[F FeltLike](b []byte) F {
	var f Felt
	f.SetBytes(b)
	return F(f)
}

func FromString[F FeltLike](s string) (F, error) {
	var f Felt
	if _, err := f.SetString(s); err != nil {
		return F{}, err
	}
	return F(f), nil
}

// UnsafeFromString panics on malformed input. Only for constants and tests.
func UnsafeFromString[F FeltLike](s string) F {
	f, err := FromString[F](s)
	if err != nil {
		panic(err)
	}
	return f
}

func NewUnsafeFromString[F FeltLike](s string) *F {
	f := UnsafeFromString[F](s)
	return &f
}

// FromShortString encodes an ASCII string of at most 31 bytes as a felt
func FromShortString[F FeltLike](s string) (F, error) {
	if len(s) > Bytes-1 {
		return F{}, fmt.Errorf("%q: %w", s, ErrShortStringTooLong)
	}
	return FromBytes[F]([]byte(s)), nil
}

// ShortString decodes a felt as ASCII. ok is false if any byte is not printable.
func ShortString[F FeltLike](v F) (string, bool) {
	f := Felt(v)
	b := f.Bytes()
	start := 0
	for start < len(b) && b[start] == 0 {
		start++
	}
	if start == len(b) {
		return "", false
	}
	for _, c := range b[start:] {
		if c < 0x20 || c > 0x7e {
			return "", false
		}
	}
	return string(b[start:]), true
}

func IsZero[F FeltLike](v F) bool {
	f := Felt(v)
	return f.IsZero()
}

func Equal[F FeltLike](a, b F) bool {
	fa := Felt(a)
	fb := Felt(b)
	return fa.Equal(&fb)
}

// Slice converts a slice of felt-based values into plain felts
func Slice[F FeltLike](vs []F) []Felt {
	out := make([]Felt, len(vs))
	for i, v := range vs {
		out[i] = Felt(v)
	}
	return out
}

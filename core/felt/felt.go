package felt

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

type Felt fp.Element

const (
	Limbs = fp.Limbs // number of 64 bits words needed to represent a Element
	Bits  = fp.Bits  // number of bits needed to represent a Element
	Bytes = fp.Bytes // number of bytes needed to represent a Element
)

var (
	// zero felt constant
	Zero = Felt{}
	One  = FromUint64[Felt](1)
)

var ErrOverflow = errors.New("value does not fit in uint64")

var bigIntPool = sync.Pool{
	New: func() any {
		return new(big.Int)
	},
}

func NewFelt(element *fp.Element) *Felt {
	return (*Felt)(element)
}

// Impl returns the underlying field element type
func (z *Felt) Impl() *fp.Element {
	return (*fp.Element)(z)
}

// UnmarshalJSON accepts numbers and strings as input.
// See Element.SetString for valid prefixes (0x, 0b, ...).
// If there is an error, we try to explicitly unmarshal from hex before
// returning an error. This implementation is taken from [gnark-crypto].
//
// [gnark-crypto]: https://github.com/ConsenSys/gnark-crypto/blob/9fd0a7de2044f088a29cfac373da73d868230148/ecc/stark-curve/fp/element.go#L1028-L1056
func (z *Felt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > fp.Bits*3 {
		return errors.New("value too large (max = Element.Bits * 3)")
	}

	// we accept numbers and strings, remove leading and trailing quotes if any
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}

	vv := bigIntPool.Get().(*big.Int)
	defer bigIntPool.Put(vv)

	if _, ok := vv.SetString(s, 0); !ok {
		if _, ok := vv.SetString(s, 16); !ok {
			return errors.New("can't parse into a big.Int: " + s)
		}
	}

	z.Impl().SetBigInt(vv)
	return nil
}

// MarshalJSON encodes the felt as a quoted hex string
func (z Felt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + z.String() + `"`), nil
}

// UnmarshalText lets felts be decoded from config files and flags
func (z *Felt) UnmarshalText(text []byte) error {
	_, err := z.SetString(string(text))
	return err
}

func (z Felt) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

func (z *Felt) SetBytes(e []byte) *Felt {
	z.Impl().SetBytes(e)
	return z
}

// SetBytesCanonical rejects inputs that are not reduced modulo the field prime
func (z *Felt) SetBytesCanonical(e []byte) error {
	return z.Impl().SetBytesCanonical(e)
}

// SetString accepts decimal and prefixed (0x, 0b, 0o) input
func (z *Felt) SetString(number string) (*Felt, error) {
	if _, err := z.Impl().SetString(number); err != nil {
		return nil, fmt.Errorf("parse felt %q: %w", number, err)
	}
	return z, nil
}

func (z *Felt) SetUint64(v uint64) *Felt {
	z.Impl().SetUint64(v)
	return z
}

func (z *Felt) SetBigInt(v *big.Int) *Felt {
	z.Impl().SetBigInt(v)
	return z
}

func (z *Felt) SetRandom() (*Felt, error) {
	if _, err := z.Impl().SetRandom(); err != nil {
		return nil, err
	}
	return z, nil
}

// String returns the 0x-prefixed hex representation without leading zeros
func (z *Felt) String() string {
	return "0x" + z.Impl().Text(16)
}

func (z *Felt) Text(base int) string {
	return z.Impl().Text(base)
}

func (z *Felt) Equal(x *Felt) bool {
	return z.Impl().Equal(x.Impl())
}

// Marshal returns the big endian regular form
func (z *Felt) Marshal() []byte {
	return z.Impl().Marshal()
}

func (z *Felt) Bytes() [32]byte {
	return z.Impl().Bytes()
}

func (z *Felt) BigInt(res *big.Int) *big.Int {
	return z.Impl().BigInt(res)
}

func (z *Felt) IsOne() bool {
	return z.Impl().IsOne()
}

func (z *Felt) IsZero() bool {
	return z.Impl().IsZero()
}

// Uint64 returns the value as uint64 or ErrOverflow
func (z *Felt) Uint64() (uint64, error) {
	if !z.Impl().IsUint64() {
		return 0, fmt.Errorf("%s: %w", z, ErrOverflow)
	}
	return z.Impl().Uint64(), nil
}

func (z *Felt) Add(x, y *Felt) *Felt {
	z.Impl().Add(x.Impl(), y.Impl())
	return z
}

func (z *Felt) Sub(x, y *Felt) *Felt {
	z.Impl().Sub(x.Impl(), y.Impl())
	return z
}

func (z *Felt) Cmp(x *Felt) int {
	return z.Impl().Cmp(x.Impl())
}

// BitLen is the length of the regular representation in bits
func (z *Felt) BitLen() int {
	return z.BigInt(new(big.Int)).BitLen()
}

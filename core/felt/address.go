package felt

import (
	"errors"
	"math/big"
)

type Address Felt

var ErrAddressOutOfRange = errors.New("address is not below 2**251")

// addressBound is the exclusive upper bound on contract addresses
var addressBound = new(big.Int).Lsh(big.NewInt(1), 251)

func (a *Address) Bytes() [32]byte {
	return (*Felt)(a).Bytes()
}

func (a *Address) String() string {
	return (*Felt)(a).String()
}

func (a *Address) UnmarshalJSON(data []byte) error {
	return (*Felt)(a).UnmarshalJSON(data)
}

func (a *Address) MarshalJSON() ([]byte, error) {
	return (*Felt)(a).MarshalJSON()
}

func (a *Address) UnmarshalText(text []byte) error {
	return (*Felt)(a).UnmarshalText(text)
}

func (a *Address) MarshalText() ([]byte, error) {
	return (*Felt)(a).MarshalText()
}

func (a *Address) IsZero() bool {
	return (*Felt)(a).IsZero()
}

func (a *Address) Equal(b *Address) bool {
	return (*Felt)(a).Equal((*Felt)(b))
}

// Validate reports whether the address lies in the contract address domain
func (a *Address) Validate() error {
	if (*Felt)(a).BigInt(new(big.Int)).Cmp(addressBound) >= 0 {
		return ErrAddressOutOfRange
	}
	return nil
}

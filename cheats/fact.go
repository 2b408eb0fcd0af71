package cheats

import (
	"fmt"
	"strings"
)

// Fact is an observable value that can be overridden
type Fact int

const (
	CallerAddress Fact = iota
	BlockNumber
	BlockTimestamp
	BlockHash
	SequencerAddress
	AccountContractAddress
	TransactionHash
	Nonce
	ChainID
	Version
	MaxFee
	Signature
)

var facts = [...]string{
	CallerAddress:          "caller_address",
	BlockNumber:            "block_number",
	BlockTimestamp:         "block_timestamp",
	BlockHash:              "block_hash",
	SequencerAddress:       "sequencer_address",
	AccountContractAddress: "account_contract_address",
	TransactionHash:        "transaction_hash",
	Nonce:                  "nonce",
	ChainID:                "chain_id",
	Version:                "version",
	MaxFee:                 "max_fee",
	Signature:              "signature",
}

// Facts lists every fact in declaration order
func Facts() []Fact {
	out := make([]Fact, len(facts))
	for i := range facts {
		out[i] = Fact(i)
	}
	return out
}

func (f Fact) String() string {
	if f < 0 || int(f) >= len(facts) {
		return fmt.Sprintf("Fact(%d)", int(f))
	}
	return facts[f]
}

func ParseFact(s string) (Fact, error) {
	for i, name := range facts {
		if strings.EqualFold(name, s) {
			return Fact(i), nil
		}
	}
	return 0, fmt.Errorf("unknown fact %q", s)
}

func (f Fact) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fact) UnmarshalText(text []byte) error {
	v, err := ParseFact(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// vector facts take any number of felts, the rest exactly one
func (f Fact) vector() bool {
	return f == Signature
}

func (f Fact) numeric() bool {
	return f == BlockNumber || f == BlockTimestamp
}

func (f Fact) address() bool {
	return f == CallerAddress || f == SequencerAddress || f == AccountContractAddress
}

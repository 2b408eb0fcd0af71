package fork

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
)

var ErrInvalidBlockID = errors.New("invalid block id")

const Latest = "latest"

// BlockID selects a block by number, hash or the latest tag
type BlockID struct {
	Number *uint64
	Hash   *felt.Felt
	Latest bool
}

func BlockNumber(n uint64) BlockID {
	return BlockID{Number: &n}
}

func BlockHash(h felt.Felt) BlockID {
	return BlockID{Hash: &h}
}

func LatestBlock() BlockID {
	return BlockID{Latest: true}
}

// ParseBlockID accepts "latest", a decimal block number or a 0x-prefixed block hash
func ParseBlockID(s string) (BlockID, error) {
	switch {
	case s == "" || s == Latest:
		return LatestBlock(), nil
	case strings.HasPrefix(s, "0x"):
		h, err := felt.FromString[felt.Felt](s)
		if err != nil {
			return BlockID{}, fmt.Errorf("%w %q: %w", ErrInvalidBlockID, s, err)
		}
		return BlockHash(h), nil
	default:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return BlockID{}, fmt.Errorf("%w %q: %w", ErrInvalidBlockID, s, err)
		}
		return BlockNumber(n), nil
	}
}

// Pinned reports whether the id always names the same block
func (b BlockID) Pinned() bool {
	return b.Number != nil || b.Hash != nil
}

func (b BlockID) String() string {
	switch {
	case b.Number != nil:
		return strconv.FormatUint(*b.Number, 10)
	case b.Hash != nil:
		return b.Hash.String()
	default:
		return Latest
	}
}

func (b BlockID) MarshalJSON() ([]byte, error) {
	switch {
	case b.Number != nil:
		return json.Marshal(map[string]uint64{"block_number": *b.Number})
	case b.Hash != nil:
		return json.Marshal(map[string]*felt.Felt{"block_hash": b.Hash})
	default:
		return json.Marshal(Latest)
	}
}

// BlockHeader is the part of a block the fork needs to seed the execution context
type BlockHeader struct {
	Hash             felt.Felt    `json:"block_hash"`
	ParentHash       felt.Felt    `json:"parent_hash"`
	Number           uint64       `json:"block_number"`
	Timestamp        uint64       `json:"timestamp"`
	SequencerAddress felt.Address `json:"sequencer_address"`
}

func (h BlockHeader) BlockInfo() starknet.BlockInfo {
	return starknet.BlockInfo{
		BlockNumber:      h.Number,
		BlockTimestamp:   h.Timestamp,
		SequencerAddress: h.SequencerAddress,
	}
}

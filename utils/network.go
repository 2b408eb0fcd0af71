package utils

import (
	"encoding"
	"encoding/json"
	"errors"
	"strings"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/spf13/pflag"
)

var ErrUnknownNetwork = errors.New("unknown network (known: mainnet, sepolia, sepolia-integration)")

// Network selects the chain id runtimes report when no fork is configured
type Network int

var (
	_ pflag.Value              = (*Network)(nil)
	_ encoding.TextUnmarshaler = (*Network)(nil)
)

const (
	Mainnet Network = iota + 1
	Sepolia
	SepoliaIntegration
)

type networkInfo struct {
	name    string
	chainID string
}

var networks = map[Network]networkInfo{
	Mainnet:            {name: "mainnet", chainID: "SN_MAIN"},
	Sepolia:            {name: "sepolia", chainID: "SN_SEPOLIA"},
	SepoliaIntegration: {name: "sepolia-integration", chainID: "SN_INTEGRATION_SEPOLIA"},
}

func (n Network) info() networkInfo {
	info, ok := networks[n]
	if !ok {
		panic(ErrUnknownNetwork)
	}
	return info
}

func (n Network) String() string {
	return n.info().name
}

func (n Network) MarshalYAML() (any, error) {
	return n.String(), nil
}

func (n *Network) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// Set accepts the network name or its upper snake case form
func (n *Network) Set(s string) error {
	name := strings.ReplaceAll(strings.ToLower(s), "_", "-")
	for network, info := range networks {
		if info.name == name {
			*n = network
			return nil
		}
	}
	return ErrUnknownNetwork
}

func (n *Network) Type() string {
	return "Network"
}

func (n *Network) UnmarshalText(text []byte) error {
	return n.Set(string(text))
}

func (n Network) ChainIDString() string {
	return n.info().chainID
}

// ChainID is the short-string encoding of the network's chain id
func (n Network) ChainID() felt.Felt {
	return felt.FromBytes[felt.Felt]([]byte(n.ChainIDString()))
}

// NetworkOf finds the known network with the given chain id
func NetworkOf(chainID *felt.Felt) (Network, bool) {
	for network := range networks {
		if id := network.ChainID(); id.Equal(chainID) {
			return network, true
		}
	}
	return 0, false
}

package starknet

import (
	"github.com/NethermindEth/juno-cheatnet/core/crypto"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
)

// contractAddressPrefix is []byte("STARKNET_CONTRACT_ADDRESS")
var contractAddressPrefix = felt.UnsafeFromString[felt.Felt]("0x535441524b4e45545f434f4e54524143545f41444452455353")

// ContractAddress computes the address of a contract deployed by callerAddress.
// The result is reduced into the address domain as the sequencer does.
func ContractAddress(callerAddress felt.Address, classHash felt.ClassHash, salt felt.Felt, constructorCallData []felt.Felt) felt.Address {
	caller := felt.Felt(callerAddress)
	class := felt.Felt(classHash)
	calldataHash := crypto.PedersenSlice(constructorCallData)
	addr := crypto.PedersenArray(
		&contractAddressPrefix,
		&caller,
		&salt,
		&class,
		&calldataHash,
	)
	return normalizeAddress(addr)
}

// 2**251 - 256
var l2AddressUpperBound = felt.UnsafeFromString[felt.Felt](
	"0x7ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff00")

func normalizeAddress(addr felt.Felt) felt.Address {
	for addr.Cmp(&l2AddressUpperBound) >= 0 {
		addr.Sub(&addr, &l2AddressUpperBound)
	}
	return felt.Address(addr)
}

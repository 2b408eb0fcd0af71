package encoder

import (
	"github.com/fxamacker/cbor/v2"
)

// maxArrayElements bounds decoded arrays; compiled class bytecode is the largest value cached
const maxArrayElements = 1 << 22

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

func mustDecMode() cbor.DecMode {
	mode, err := cbor.DecOptions{
		MaxArrayElements: maxArrayElements,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return mode
}

// Marshal encodes v deterministically so equal values share cache entries
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func Unmarshal(b []byte, v any) error {
	return decMode.Unmarshal(b, v)
}

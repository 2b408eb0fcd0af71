package felt

type Hash Felt

func (h *Hash) Bytes() [32]byte {
	return (*Felt)(h).Bytes()
}

func (h *Hash) String() string {
	return (*Felt)(h).String()
}

type ClassHash Hash

func (h *ClassHash) String() string {
	return (*Hash)(h).String()
}

func (h *ClassHash) IsZero() bool {
	return (*Felt)(h).IsZero()
}

func (h *ClassHash) UnmarshalJSON(data []byte) error {
	return (*Felt)(h).UnmarshalJSON(data)
}

func (h *ClassHash) MarshalJSON() ([]byte, error) {
	return (*Felt)(h).MarshalJSON()
}

type CasmClassHash ClassHash

func (h *CasmClassHash) String() string {
	return (*ClassHash)(h).String()
}

func (h *CasmClassHash) UnmarshalJSON(data []byte) error {
	return (*Felt)(h).UnmarshalJSON(data)
}

func (h *CasmClassHash) MarshalJSON() ([]byte, error) {
	return (*Felt)(h).MarshalJSON()
}

func (h *ClassHash) Bytes() [32]byte {
	return (*Felt)(h).Bytes()
}

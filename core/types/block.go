package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"lukechampine.com/blake3"
)

// BlockHeader is one tick of the care-hours block clock. Timeouts and
// revocation windows are measured against Height.
type BlockHeader struct {
	Height     uint64   `json:"height"`
	Timestamp  uint64   `json:"timestamp"`
	PrevHash   [32]byte `json:"prevHash"`
	Operations uint64   `json:"operations"` // operations committed since the parent header
}

// Hash returns the blake3 digest of the RLP encoded header.
func (h *BlockHeader) Hash() ([32]byte, error) {
	encoded, err := rlp.EncodeToBytes(h)
	if err != nil {
		return [32]byte{}, err
	}
	return blake3.Sum256(encoded), nil
}

// Clone returns a copy of the header.
func (h *BlockHeader) Clone() *BlockHeader {
	if h == nil {
		return nil
	}
	clone := *h
	return &clone
}

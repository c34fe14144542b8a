package core

import (
	"fmt"
	"math"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
)

var (
	headerPrefix  = []byte("chain/header/")
	tipKey        = []byte("chain/tip")
	pendingOpsKey = []byte("chain/pending")
)

// chainStore persists the block clock alongside module state so a header and
// the operations it covers commit together.
type chainStore struct {
	state *state.Manager
}

func newChainStore(manager *state.Manager) chainStore {
	return chainStore{state: manager}
}

// Tip returns the most recent header.
func (c chainStore) Tip() (*types.BlockHeader, bool, error) {
	var height uint64
	ok, err := c.state.KVGet(tipKey, &height)
	if err != nil || !ok {
		return nil, ok, err
	}
	return c.Header(height)
}

// Header loads the header at height.
func (c chainStore) Header(height uint64) (*types.BlockHeader, bool, error) {
	header := new(types.BlockHeader)
	ok, err := c.state.KVGet(state.Uint64Key(headerPrefix, height), header)
	if err != nil {
		return nil, false, fmt.Errorf("chain: load header %d: %w", height, err)
	}
	if !ok {
		return nil, false, nil
	}
	return header, true, nil
}

func (c chainStore) putHeader(header *types.BlockHeader) error {
	if err := c.state.KVPut(state.Uint64Key(headerPrefix, header.Height), header); err != nil {
		return fmt.Errorf("chain: store header %d: %w", header.Height, err)
	}
	if err := c.state.KVPut(tipKey, header.Height); err != nil {
		return fmt.Errorf("chain: store tip: %w", err)
	}
	return nil
}

// WriteGenesis stores header zero. It fails when a chain already exists.
func (c chainStore) WriteGenesis(timestamp uint64) (*types.BlockHeader, error) {
	if _, ok, err := c.Tip(); err != nil {
		return nil, err
	} else if ok {
		return nil, fmt.Errorf("chain: genesis already written")
	}
	header := &types.BlockHeader{Timestamp: timestamp}
	if err := c.putHeader(header); err != nil {
		return nil, err
	}
	return header, nil
}

// countOperation records one committed operation against the next header.
func (c chainStore) countOperation() error {
	var pending uint64
	if _, err := c.state.KVGet(pendingOpsKey, &pending); err != nil {
		return err
	}
	if pending < math.MaxUint64 {
		pending++
	}
	return c.state.KVPut(pendingOpsKey, pending)
}

// Append seals a new header on top of the tip. Timestamps never move
// backwards even if the wall clock does.
func (c chainStore) Append(timestamp uint64) (*types.BlockHeader, error) {
	parent, ok, err := c.Tip()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("chain: genesis header missing")
	}
	if parent.Height == math.MaxUint64 {
		return nil, fmt.Errorf("chain: height overflow")
	}
	parentHash, err := parent.Hash()
	if err != nil {
		return nil, fmt.Errorf("chain: hash parent: %w", err)
	}
	var pending uint64
	if _, err := c.state.KVGet(pendingOpsKey, &pending); err != nil {
		return nil, err
	}
	if timestamp < parent.Timestamp {
		timestamp = parent.Timestamp
	}
	header := &types.BlockHeader{
		Height:     parent.Height + 1,
		Timestamp:  timestamp,
		PrevHash:   parentHash,
		Operations: pending,
	}
	if err := c.putHeader(header); err != nil {
		return nil, err
	}
	if err := c.state.KVDelete(pendingOpsKey); err != nil {
		return nil, err
	}
	return header, nil
}

package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
)

type addressParams struct {
	Address string `json:"address"`
}

type transferParams struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type listingParams struct {
	Title string `json:"title"`
	Hours uint64 `json:"hours"`
}

type listingIDParams struct {
	ID uint64 `json:"id"`
}

func (s *Server) bankBalance(_ context.Context, _ [20]byte, raw json.RawMessage) (interface{}, error) {
	var params addressParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	account, err := parseAccountParam("address", params.Address)
	if err != nil {
		return nil, err
	}
	balance, err := s.node.Balance(account)
	if err != nil {
		return nil, err
	}
	return BalanceJSON{Address: params.Address, Balance: balance.Dec()}, nil
}

func (s *Server) bankTransfer(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params transferParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	to, err := parseAccountParam("to", params.To)
	if err != nil {
		return nil, err
	}
	if err := s.node.Transfer(caller, to, params.Amount); err != nil {
		return nil, err
	}
	balance, err := s.node.Balance(caller)
	if err != nil {
		return nil, err
	}
	return BalanceJSON{Address: crypto.FormatAccount(caller), Balance: balance.Dec()}, nil
}

func (s *Server) reputationRegister(_ context.Context, caller [20]byte, _ json.RawMessage) (interface{}, error) {
	profile, err := s.node.RegisterProfile(caller)
	if err != nil {
		return nil, err
	}
	return profileView(profile), nil
}

func (s *Server) reputationGet(_ context.Context, _ [20]byte, raw json.RawMessage) (interface{}, error) {
	var params addressParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	account, err := parseAccountParam("address", params.Address)
	if err != nil {
		return nil, err
	}
	profile, ok, err := s.node.Reputation(account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("reputation: %w: %s", coreerrors.ErrNotRegistered, params.Address)
	}
	return profileView(profile), nil
}

func (s *Server) catalogCreateOffer(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params listingParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	offer, err := s.node.CreateOffer(caller, params.Title, params.Hours)
	if err != nil {
		return nil, err
	}
	return offerView(offer), nil
}

func (s *Server) catalogCreateRequest(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params listingParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	req, err := s.node.CreateRequest(caller, params.Title, params.Hours)
	if err != nil {
		return nil, err
	}
	return requestView(req), nil
}

func (s *Server) catalogCancelOffer(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params listingIDParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	offer, err := s.node.CancelOffer(caller, params.ID)
	if err != nil {
		return nil, err
	}
	return offerView(offer), nil
}

func (s *Server) catalogCancelRequest(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params listingIDParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	req, err := s.node.CancelRequest(caller, params.ID)
	if err != nil {
		return nil, err
	}
	return requestView(req), nil
}

func (s *Server) catalogGetOffer(_ context.Context, _ [20]byte, raw json.RawMessage) (interface{}, error) {
	var params listingIDParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	offer, ok, err := s.node.Offer(params.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("catalog: %w: offer %d", coreerrors.ErrNotFound, params.ID)
	}
	return offerView(offer), nil
}

func (s *Server) catalogGetRequest(_ context.Context, _ [20]byte, raw json.RawMessage) (interface{}, error) {
	var params listingIDParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	req, ok, err := s.node.Request(params.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("catalog: %w: request %d", coreerrors.ErrNotFound, params.ID)
	}
	return requestView(req), nil
}

func (s *Server) chainHeight(_ context.Context, _ [20]byte, _ json.RawMessage) (interface{}, error) {
	return headerView(s.node.Tip())
}

package rpc

import (
	"errors"
	"net/http"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32040
	codeNotFound       = -32041
	codeConflict       = -32042
	codeOutOfBounds    = -32043
	codePaused         = -32044
	codeRateLimited    = -32045
)

var conflictKinds = []error{
	coreerrors.ErrInvalidStatus,
	coreerrors.ErrAlreadyExists,
	coreerrors.ErrAlreadyVerified,
	coreerrors.ErrDisputeAlreadyActive,
	coreerrors.ErrNoDispute,
	coreerrors.ErrInsufficientBalance,
	coreerrors.ErrTimeoutNotReached,
	coreerrors.ErrRevocationWindowClosed,
	coreerrors.ErrInvalidOffer,
	coreerrors.ErrInvalidRequest,
	coreerrors.ErrNotRegistered,
}

var boundsKinds = []error{
	coreerrors.ErrInvalidAmount,
	coreerrors.ErrInvalidRating,
	coreerrors.ErrMetadataTooLarge,
	coreerrors.ErrEvidenceTooLarge,
	coreerrors.ErrTextTooLong,
	coreerrors.ErrEmptyReason,
}

func isAny(err error, kinds []error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// toRPCError classifies err into a JSON-RPC error and the HTTP status
// written alongside it.
func toRPCError(err error) (*RPCError, int) {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr, statusForCode(rpcErr.Code)
	}
	kind := coreerrors.Kind(err)
	out := &RPCError{Message: err.Error(), Data: ErrorData{Kind: kind}}
	switch {
	case errors.Is(err, coreerrors.ErrUnauthorized):
		out.Code = codeUnauthorized
	case errors.Is(err, coreerrors.ErrNotFound):
		out.Code = codeNotFound
	case errors.Is(err, coreerrors.ErrPaused):
		out.Code = codePaused
	case isAny(err, conflictKinds):
		out.Code = codeConflict
	case isAny(err, boundsKinds):
		out.Code = codeOutOfBounds
	default:
		out.Code = codeServerError
		out.Message = "internal error"
	}
	return out, statusForCode(out.Code)
}

func invalidParams(message string) *RPCError {
	return &RPCError{Code: codeInvalidParams, Message: message}
}

func statusForCode(code int) int {
	switch code {
	case codeParseError, codeInvalidRequest, codeInvalidParams, codeOutOfBounds:
		return http.StatusBadRequest
	case codeMethodNotFound, codeNotFound:
		return http.StatusNotFound
	case codeUnauthorized:
		return http.StatusForbidden
	case codeConflict:
		return http.StatusConflict
	case codePaused:
		return http.StatusServiceUnavailable
	case codeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

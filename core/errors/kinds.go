package errors

import stderrors "errors"

// Error kinds shared by every native module. Modules wrap these with context
// using fmt.Errorf("module: %w: ...", kind) so callers can classify failures
// with errors.Is regardless of the message.
var (
	ErrUnauthorized           = stderrors.New("unauthorized")
	ErrNotFound               = stderrors.New("not found")
	ErrInvalidStatus          = stderrors.New("invalid status")
	ErrInvalidAmount          = stderrors.New("invalid amount")
	ErrInvalidRating          = stderrors.New("invalid rating")
	ErrMetadataTooLarge       = stderrors.New("metadata too large")
	ErrEvidenceTooLarge       = stderrors.New("evidence too large")
	ErrTextTooLong            = stderrors.New("text too long")
	ErrAlreadyExists          = stderrors.New("already exists")
	ErrAlreadyVerified        = stderrors.New("already verified")
	ErrDisputeAlreadyActive   = stderrors.New("dispute already active")
	ErrNoDispute              = stderrors.New("no dispute")
	ErrEmptyReason            = stderrors.New("empty reason")
	ErrInsufficientBalance    = stderrors.New("insufficient balance")
	ErrPaused                 = stderrors.New("paused")
	ErrTimeoutNotReached      = stderrors.New("timeout not reached")
	ErrRevocationWindowClosed = stderrors.New("revocation window closed")
	ErrInvalidOffer           = stderrors.New("invalid offer")
	ErrInvalidRequest         = stderrors.New("invalid request")
	ErrNotRegistered          = stderrors.New("not registered")
)

var kindNames = []struct {
	err  error
	name string
}{
	{ErrUnauthorized, "Unauthorized"},
	{ErrNotFound, "NotFound"},
	{ErrInvalidStatus, "InvalidStatus"},
	{ErrInvalidAmount, "InvalidAmount"},
	{ErrInvalidRating, "InvalidRating"},
	{ErrMetadataTooLarge, "MetadataTooLarge"},
	{ErrEvidenceTooLarge, "EvidenceTooLarge"},
	{ErrTextTooLong, "TextTooLong"},
	{ErrAlreadyExists, "AlreadyExists"},
	{ErrAlreadyVerified, "AlreadyVerified"},
	{ErrDisputeAlreadyActive, "DisputeAlreadyActive"},
	{ErrNoDispute, "NoDispute"},
	{ErrEmptyReason, "EmptyReason"},
	{ErrInsufficientBalance, "InsufficientBalance"},
	{ErrPaused, "Paused"},
	{ErrTimeoutNotReached, "TimeoutNotReached"},
	{ErrRevocationWindowClosed, "RevocationWindowClosed"},
	{ErrInvalidOffer, "InvalidOffer"},
	{ErrInvalidRequest, "InvalidRequest"},
	{ErrNotRegistered, "NotRegistered"},
}

// Kind returns the stable name of the first error kind wrapped by err, or
// "Internal" when err does not carry one.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kindNames {
		if stderrors.Is(err, k.err) {
			return k.name
		}
	}
	return "Internal"
}

// IsKind reports whether err carries any of the module error kinds.
func IsKind(err error) bool {
	return err != nil && Kind(err) != "Internal"
}

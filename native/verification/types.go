package verification

const (
	// MaxDisputeEvidence is the capacity of a record's dispute evidence list.
	MaxDisputeEvidence = 5
	// MaxTextBytes bounds descriptions and revocation reasons.
	MaxTextBytes = 256
)

// Record tracks a booking's verification outcome and consensus progress.
type Record struct {
	BookingID        uint64
	Verified         bool
	Rating           uint64
	Timestamp        uint64
	Verifier         [20]byte
	EvidenceHash     [32]byte
	HasEvidence      bool
	DisputeActive    bool
	DisputeEvidence  [MaxDisputeEvidence][32]byte
	EvidenceCount    uint64
	ConsensusCount   uint64
	TotalParties     uint64
	Confirmers       [][20]byte
	Dissent          bool
	Finalized        bool
	Released         bool
	OracleCalled     bool
	Revoked          bool
	RevocationReason string
}

// Evidence returns the dispute evidence digests in submission order.
func (r *Record) Evidence() [][32]byte {
	if r == nil {
		return nil
	}
	out := make([][32]byte, 0, r.EvidenceCount)
	for i := uint64(0); i < r.EvidenceCount && i < MaxDisputeEvidence; i++ {
		out = append(out, r.DisputeEvidence[i])
	}
	return out
}

// HasConfirmed reports whether account already counted towards consensus.
func (r *Record) HasConfirmed(account [20]byte) bool {
	if r == nil {
		return false
	}
	for _, c := range r.Confirmers {
		if c == account {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	dup := *r
	dup.Confirmers = append([][20]byte(nil), r.Confirmers...)
	return &dup
}

// Escalation is a fee-backed dispute awaiting the oracle's decision.
type Escalation struct {
	BookingID           uint64
	Initiator           [20]byte
	InitiatedAt         uint64
	TimeoutBlock        uint64
	FeePaid             uint64
	OracleResponse      bool
	HasOracleResponse   bool
	ResolutionTimestamp uint64
	Resolved            bool
}

// Clone returns a copy of the escalation.
func (e *Escalation) Clone() *Escalation {
	if e == nil {
		return nil
	}
	dup := *e
	return &dup
}

// EvidenceEntry is one append-only evidence log submission.
type EvidenceEntry struct {
	BookingID    uint64
	SubmissionID uint64
	Digest       [32]byte
	Submitter    [20]byte
	Timestamp    uint64
	Description  string
	Verified     bool
}

package exports

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

// EvidenceJSONL builds a JSON Lines export of an evidence log and returns the
// serialised payload alongside a checksum.
func EvidenceJSONL(entries []verification.EvidenceEntry) ([]byte, string, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	for _, entry := range entries {
		payload := map[string]interface{}{
			"booking_id":    entry.BookingID,
			"submission_id": entry.SubmissionID,
			"digest":        "0x" + hex.EncodeToString(entry.Digest[:]),
			"submitter":     crypto.FormatAccount(entry.Submitter),
			"block":         entry.Timestamp,
			"description":   entry.Description,
			"verified":      entry.Verified,
		}
		if err := encoder.Encode(payload); err != nil {
			return nil, "", err
		}
	}
	data := buffer.Bytes()
	checksum := sha256.Sum256(data)
	return data, hex.EncodeToString(checksum[:]), nil
}

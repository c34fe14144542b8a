package exports

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"strconv"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

var csvHeader = []string{"booking_id", "submission_id", "digest", "submitter", "block", "description", "verified"}

// EvidenceCSV builds a CSV export of an evidence log and returns the data
// alongside a SHA-256 checksum of the payload.
func EvidenceCSV(entries []verification.EvidenceEntry) ([]byte, string, error) {
	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)
	if err := writer.Write(csvHeader); err != nil {
		return nil, "", err
	}
	for _, entry := range entries {
		record := []string{
			strconv.FormatUint(entry.BookingID, 10),
			strconv.FormatUint(entry.SubmissionID, 10),
			"0x" + hex.EncodeToString(entry.Digest[:]),
			crypto.FormatAccount(entry.Submitter),
			strconv.FormatUint(entry.Timestamp, 10),
			entry.Description,
			strconv.FormatBool(entry.Verified),
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}
	data := buffer.Bytes()
	checksum := sha256.Sum256(data)
	return data, hex.EncodeToString(checksum[:]), nil
}

package exports

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

func sampleEntries() []verification.EvidenceEntry {
	var digest [32]byte
	digest[0] = 0xab
	return []verification.EvidenceEntry{
		{BookingID: 7, SubmissionID: 1, Digest: digest, Submitter: [20]byte{0x01}, Timestamp: 12, Description: "timesheet, signed", Verified: true},
		{BookingID: 7, SubmissionID: 2, Digest: digest, Submitter: [20]byte{0x02}, Timestamp: 14, Description: "photo"},
	}
}

func TestEvidenceCSV(t *testing.T) {
	data, checksum, err := EvidenceCSV(sampleEntries())
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(data) == 0 || len(checksum) != 64 {
		t.Fatalf("expected data and checksum")
	}
	output := string(data)
	if !strings.HasPrefix(output, "booking_id,submission_id,digest,submitter,block,description,verified\n") {
		t.Fatalf("missing header: %s", output)
	}
	if !strings.Contains(output, `"timesheet, signed"`) {
		t.Fatalf("description not quoted: %s", output)
	}
}

func TestEvidenceJSONL(t *testing.T) {
	data, checksum, err := EvidenceJSONL(sampleEntries())
	if err != nil {
		t.Fatalf("jsonl: %v", err)
	}
	if checksum == "" {
		t.Fatalf("expected checksum")
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"submission_id":1`) || !strings.Contains(lines[0], `"verified":true`) {
		t.Fatalf("unexpected payload: %s", lines[0])
	}
	again, sum, err := EvidenceJSONL(sampleEntries())
	if err != nil || sum != checksum || string(again) != string(data) {
		t.Fatalf("export not deterministic")
	}
}

func TestEvidenceJSONLEmpty(t *testing.T) {
	data, checksum, err := EvidenceJSONL(nil)
	if err != nil {
		t.Fatalf("jsonl: %v", err)
	}
	if len(data) != 0 || checksum != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("unexpected empty export %q %s", data, checksum)
	}
}

func TestWriteEvidenceParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evidence.parquet")
	if err := WriteEvidenceParquet(path, sampleEntries()); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(evidenceRow), 1)
	if err != nil {
		t.Fatalf("parquet reader: %v", err)
	}
	defer pr.ReadStop()
	if got := pr.GetNumRows(); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	rows := make([]evidenceRow, 2)
	if err := pr.Read(&rows); err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if rows[0].SubmissionID != 1 || rows[1].Description != "photo" || !rows[0].Verified {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestWriteEvidenceParquetKeepsFullUint64Range(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evidence.parquet")
	entries := []verification.EvidenceEntry{
		{BookingID: math.MaxUint64, SubmissionID: 1 << 63, Timestamp: math.MaxUint64 - 1, Description: "late block"},
	}
	if err := WriteEvidenceParquet(path, entries); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(evidenceRow), 1)
	if err != nil {
		t.Fatalf("parquet reader: %v", err)
	}
	defer pr.ReadStop()
	rows := make([]evidenceRow, 1)
	if err := pr.Read(&rows); err != nil {
		t.Fatalf("read rows: %v", err)
	}
	got := rows[0]
	if got.BookingID != math.MaxUint64 || got.SubmissionID != 1<<63 || got.Block != math.MaxUint64-1 {
		t.Fatalf("identifiers not preserved: %+v", got)
	}
}

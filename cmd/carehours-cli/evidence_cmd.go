package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/integrations/exports"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

func evidenceUsage() string {
	return strings.TrimSpace(`Usage:
  carehours-cli evidence export --id <booking> [--format jsonl|csv|parquet] [--out file]

Parquet exports require --out. JSONL and CSV print to stdout when --out is
omitted; the SHA-256 checksum of the payload is written to stderr.
`)
}

type evidenceJSON struct {
	BookingID    uint64 `json:"bookingId"`
	SubmissionID uint64 `json:"submissionId"`
	Digest       string `json:"digest"`
	Submitter    string `json:"submitter"`
	Timestamp    uint64 `json:"timestamp"`
	Description  string `json:"description"`
	Verified     bool   `json:"verified"`
}

func (e evidenceJSON) entry() (verification.EvidenceEntry, error) {
	out := verification.EvidenceEntry{
		BookingID:    e.BookingID,
		SubmissionID: e.SubmissionID,
		Timestamp:    e.Timestamp,
		Description:  e.Description,
		Verified:     e.Verified,
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(e.Digest, "0x"))
	if err != nil || len(raw) != len(out.Digest) {
		return out, fmt.Errorf("submission %d: malformed digest %q", e.SubmissionID, e.Digest)
	}
	copy(out.Digest[:], raw)
	submitter, err := crypto.ParseAccount(e.Submitter)
	if err != nil {
		return out, fmt.Errorf("submission %d: submitter: %w", e.SubmissionID, err)
	}
	out.Submitter = submitter
	return out, nil
}

func runEvidenceCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] != "export" {
		fmt.Fprintln(stderr, evidenceUsage())
		return 1
	}
	fs := newFlagSet("evidence export", stderr, evidenceUsage)
	var (
		id     uint64
		format string
		out    string
	)
	fs.Uint64Var(&id, "id", 0, "booking id")
	fs.StringVar(&format, "format", "jsonl", "jsonl, csv or parquet")
	fs.StringVar(&out, "out", "", "output file")
	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "jsonl", "csv":
	case "parquet":
		if strings.TrimSpace(out) == "" {
			return printError(stderr, "--out is required for parquet exports")
		}
	default:
		return printError(stderr, "--format must be jsonl, csv or parquet")
	}

	result, rpcErr, err := rpcCall("verification_evidence", map[string]interface{}{"bookingId": id}, false)
	if err != nil {
		return handleRPCCallError(stderr, err)
	}
	if rpcErr != nil {
		return handleRPCError(stderr, rpcErr)
	}
	var views []evidenceJSON
	if err := json.Unmarshal(result, &views); err != nil {
		return printError(stderr, fmt.Sprintf("decode evidence: %v", err))
	}
	entries := make([]verification.EvidenceEntry, 0, len(views))
	for _, view := range views {
		entry, err := view.entry()
		if err != nil {
			return printError(stderr, err.Error())
		}
		entries = append(entries, entry)
	}

	if format == "parquet" {
		if err := exports.WriteEvidenceParquet(out, entries); err != nil {
			return printError(stderr, err.Error())
		}
		fmt.Fprintf(stdout, "Wrote %d entries to %s\n", len(entries), out)
		return 0
	}

	var (
		data     []byte
		checksum string
	)
	if format == "csv" {
		data, checksum, err = exports.EvidenceCSV(entries)
	} else {
		data, checksum, err = exports.EvidenceJSONL(entries)
	}
	if err != nil {
		return printError(stderr, err.Error())
	}
	if out == "" {
		_, _ = stdout.Write(data)
	} else if err := os.WriteFile(out, data, 0o644); err != nil {
		return printError(stderr, err.Error())
	} else {
		fmt.Fprintf(stdout, "Wrote %d entries to %s\n", len(entries), out)
	}
	fmt.Fprintf(stderr, "sha256:%s\n", checksum)
	return 0
}

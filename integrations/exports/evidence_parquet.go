package exports

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

type evidenceRow struct {
	BookingID    uint64 `parquet:"name=booking_id, type=INT64, convertedtype=UINT_64"`
	SubmissionID uint64 `parquet:"name=submission_id, type=INT64, convertedtype=UINT_64"`
	Digest       string `parquet:"name=digest, type=BYTE_ARRAY, convertedtype=UTF8"`
	Submitter    string `parquet:"name=submitter, type=BYTE_ARRAY, convertedtype=UTF8"`
	Block        uint64 `parquet:"name=block, type=INT64, convertedtype=UINT_64"`
	Description  string `parquet:"name=description, type=BYTE_ARRAY, convertedtype=UTF8"`
	Verified     bool   `parquet:"name=verified, type=BOOLEAN"`
}

// WriteEvidenceParquet writes an evidence log to a snappy-compressed parquet
// file at path.
func WriteEvidenceParquet(path string, entries []verification.EvidenceEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("exports: create parquet: %w", err)
	}
	fw := writerfile.NewWriterFile(file)
	pw, err := writer.NewParquetWriter(fw, new(evidenceRow), 1)
	if err != nil {
		file.Close()
		return fmt.Errorf("exports: parquet schema: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, entry := range entries {
		row := &evidenceRow{
			BookingID:    entry.BookingID,
			SubmissionID: entry.SubmissionID,
			Digest:       "0x" + hex.EncodeToString(entry.Digest[:]),
			Submitter:    crypto.FormatAccount(entry.Submitter),
			Block:        entry.Timestamp,
			Description:  entry.Description,
			Verified:     entry.Verified,
		}
		if err := pw.Write(row); err != nil {
			pw.WriteStop()
			file.Close()
			return fmt.Errorf("exports: parquet write: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		file.Close()
		return fmt.Errorf("exports: parquet flush: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("exports: close parquet file: %w", err)
	}
	return nil
}

// Package jsonl renders records as line-delimited JSON: one JSON object per
// line, newline separators, no enclosing array and no trailing newline.
package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hoopsight/nba-datalake/internal/domain/player"
)

// Encode serializes records into a single line-delimited JSON blob. Each
// record is compacted onto one line as-is; N records in means N lines out,
// and every line parses back to the original record.
func Encode(records []player.Record) ([]byte, error) {
	var buf bytes.Buffer
	for i, record := range records {
		if i > 0 {
			buf.WriteByte('\n')
		}
		// Compact strips insignificant whitespace without touching field
		// order or values, and rejects records that are not valid JSON.
		if err := json.Compact(&buf, record); err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
	}

	return buf.Bytes(), nil
}

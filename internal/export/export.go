// Package export renders {inputs, result} snapshots as JSON or CSV. Callers
// thread the pair explicitly; nothing here remembers the last evaluation.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/readimeter/readimeter/internal/readiness"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q: want json|csv", s)
	}
}

// Snapshot pairs the inputs with the result they produced.
type Snapshot struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Inputs      readiness.Inputs `json:"inputs"`
	Result      readiness.Result `json:"result"`
}

// NewSnapshot stamps an inputs/result pair for export.
func NewSnapshot(in readiness.Inputs, res readiness.Result) Snapshot {
	return Snapshot{
		GeneratedAt: time.Now().UTC(),
		Inputs:      in,
		Result:      res,
	}
}

// Write renders the snapshot in the given format.
func Write(w io.Writer, format Format, snap Snapshot) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, snap)
	default:
		return WriteJSON(w, snap)
	}
}

// WriteJSON writes the snapshot as indented JSON.
func WriteJSON(w io.Writer, snap Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// WriteCSV writes the snapshot as two CSV sections: field/value rows for the
// inputs, score, and band, then one row per blocker with its reason, hint,
// and gap.
func WriteCSV(w io.Writer, snap Snapshot) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"field", "value"},
		{"process_volume", strconv.Itoa(snap.Inputs.ProcessVolume)},
		{"variance", strconv.Itoa(snap.Inputs.Variance)},
		{"exception_rate", strconv.Itoa(snap.Inputs.ExceptionRate)},
		{"data_quality", strconv.Itoa(snap.Inputs.DataQuality)},
		{"system_access", strconv.Itoa(snap.Inputs.SystemAccess)},
		{"compliance_sensitivity", strconv.Itoa(snap.Inputs.ComplianceSensitivity)},
		{"score", strconv.Itoa(snap.Result.Score)},
		{"band", string(snap.Result.Band)},
	}

	rows = append(rows, []string{"blocker_reason", "blocker_hint", "blocker_gap"})
	for _, b := range snap.Result.Blockers {
		rows = append(rows, []string{
			b.Reason,
			b.Hint,
			strconv.FormatFloat(b.Gap, 'f', -1, 64),
		})
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

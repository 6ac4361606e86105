// Package importer loads Firestore JSON exports into tracked records.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/verte-zerg/tinytracker/internal/model"
)

// Result holds the decoded records and the number of documents that were skipped.
type Result struct {
	Feedings []model.Feeding
	Nursing  []model.NursingSession
	Solids   []model.SolidsSession
	Sleep    []model.SleepSession
	Skipped  int
}

// Total returns the number of decoded records.
func (r Result) Total() int {
	return len(r.Feedings) + len(r.Nursing) + len(r.Solids) + len(r.Sleep)
}

// Sink receives imported records.
type Sink interface {
	InsertFeeding(ctx context.Context, f model.Feeding) (string, error)
	InsertNursing(ctx context.Context, n model.NursingSession) (string, error)
	InsertSolids(ctx context.Context, s model.SolidsSession) (string, error)
	InsertSleep(ctx context.Context, s model.SleepSession) (string, error)
}

type exportFile struct {
	Feedings []json.RawMessage `json:"feedings"`
	Nursing  []json.RawMessage `json:"nursing"`
	Solids   []json.RawMessage `json:"solids"`
	Sleep    []json.RawMessage `json:"sleep"`
}

type document struct {
	ID               string            `json:"id"`
	Timestamp        *float64          `json:"timestamp"`
	StartTime        *float64          `json:"startTime"`
	EndTime          *float64          `json:"endTime"`
	IsActive         bool              `json:"isActive"`
	Ounces           *float64          `json:"ounces"`
	LeftDurationSec  *float64          `json:"leftDurationSec"`
	RightDurationSec *float64          `json:"rightDurationSec"`
	Foods            []json.RawMessage `json:"foods"`
}

// LoadFile reads an export from path.
func LoadFile(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only export.
			_ = cerr
		}
	}()
	return Decode(file)
}

// Decode parses an export. Documents that do not describe a usable record are
// counted in Result.Skipped rather than failing the import.
func Decode(r io.Reader) (Result, error) {
	var raw exportFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Result{}, fmt.Errorf("failed to decode export: %w", err)
	}
	var res Result
	for _, msg := range raw.Feedings {
		doc, ok := parseDocument(msg)
		if !ok || millis(doc.Timestamp) <= 0 || !finite(doc.Ounces) || *doc.Ounces <= 0 {
			res.Skipped++
			continue
		}
		res.Feedings = append(res.Feedings, model.Feeding{ID: doc.ID, Timestamp: millis(doc.Timestamp), Ounces: *doc.Ounces})
	}
	for _, msg := range raw.Nursing {
		doc, ok := parseDocument(msg)
		n := model.NursingSession{
			ID:               doc.ID,
			Timestamp:        millis(doc.Timestamp),
			StartTime:        millis(doc.StartTime),
			LeftDurationSec:  orZero(doc.LeftDurationSec),
			RightDurationSec: orZero(doc.RightDurationSec),
		}
		if !ok || n.At() <= 0 {
			res.Skipped++
			continue
		}
		res.Nursing = append(res.Nursing, n)
	}
	for _, msg := range raw.Solids {
		doc, ok := parseDocument(msg)
		if !ok || millis(doc.Timestamp) <= 0 {
			res.Skipped++
			continue
		}
		res.Solids = append(res.Solids, model.SolidsSession{ID: doc.ID, Timestamp: millis(doc.Timestamp), Foods: foodNames(doc.Foods)})
	}
	for _, msg := range raw.Sleep {
		doc, ok := parseDocument(msg)
		s := model.SleepSession{
			ID:        doc.ID,
			StartTime: millis(doc.StartTime),
			EndTime:   millis(doc.EndTime),
		}
		s.IsActive = doc.IsActive && s.EndTime == 0
		if !ok || s.StartTime <= 0 {
			res.Skipped++
			continue
		}
		res.Sleep = append(res.Sleep, s)
	}
	return res, nil
}

// Import writes every record of res into sink.
func Import(ctx context.Context, sink Sink, res Result) error {
	for _, f := range res.Feedings {
		if _, err := sink.InsertFeeding(ctx, f); err != nil {
			return fmt.Errorf("failed to import feeding: %w", err)
		}
	}
	for _, n := range res.Nursing {
		if _, err := sink.InsertNursing(ctx, n); err != nil {
			return fmt.Errorf("failed to import nursing session: %w", err)
		}
	}
	for _, s := range res.Solids {
		if _, err := sink.InsertSolids(ctx, s); err != nil {
			return fmt.Errorf("failed to import solids: %w", err)
		}
	}
	for _, s := range res.Sleep {
		if _, err := sink.InsertSleep(ctx, s); err != nil {
			return fmt.Errorf("failed to import sleep session: %w", err)
		}
	}
	return nil
}

func parseDocument(msg json.RawMessage) (document, bool) {
	var doc document
	if err := json.Unmarshal(msg, &doc); err != nil {
		return document{}, false
	}
	return doc, true
}

// foodNames accepts foods as plain strings or as objects with a name field.
func foodNames(raw []json.RawMessage) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			out = append(out, strings.TrimSpace(name))
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Name != "" {
			out = append(out, strings.TrimSpace(obj.Name))
			continue
		}
		out = append(out, "food")
	}
	return out
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func millis(v *float64) int64 {
	if !finite(v) || *v <= 0 {
		return 0
	}
	return int64(math.Round(*v))
}

func orZero(v *float64) float64 {
	if !finite(v) || *v < 0 {
		return 0
	}
	return *v
}

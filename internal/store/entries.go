package store

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/verte-zerg/tinytracker/internal/model"
)

const (
	tableFeedings = "feedings"
	tableNursing  = "nursing_sessions"
	tableSolids   = "solids_sessions"
	tableSleep    = "sleep_sessions"
)

func tableFor(kind string) (string, error) {
	switch model.Activity(kind) {
	case model.ActivityFeeding:
		return tableFeedings, nil
	case model.ActivityNursing:
		return tableNursing, nil
	case model.ActivitySolids:
		return tableSolids, nil
	case model.ActivitySleep:
		return tableSleep, nil
	default:
		return "", fmt.Errorf("unknown activity %q", kind)
	}
}

// InsertFeeding stores a feeding, replacing any record with the same ID, and returns its ID.
func (s *Store) InsertFeeding(ctx context.Context, f model.Feeding) (string, error) {
	f.ID = ensureID(f.ID)
	err := s.exec(ctx, sq.Insert(tableFeedings).Options("OR REPLACE").
		Columns("id", "timestamp", "ounces").
		Values(f.ID, f.Timestamp, f.Ounces))
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

// InsertNursing stores a nursing session and returns its ID.
func (s *Store) InsertNursing(ctx context.Context, n model.NursingSession) (string, error) {
	n.ID = ensureID(n.ID)
	err := s.exec(ctx, sq.Insert(tableNursing).Options("OR REPLACE").
		Columns("id", "timestamp", "start_time", "left_duration_sec", "right_duration_sec").
		Values(n.ID, n.Timestamp, n.StartTime, n.LeftDurationSec, n.RightDurationSec))
	if err != nil {
		return "", err
	}
	return n.ID, nil
}

// InsertSolids stores a solids session and returns its ID.
func (s *Store) InsertSolids(ctx context.Context, sol model.SolidsSession) (string, error) {
	sol.ID = ensureID(sol.ID)
	foods := sol.Foods
	if foods == nil {
		foods = []string{}
	}
	encoded, err := json.Marshal(foods)
	if err != nil {
		return "", fmt.Errorf("failed to encode foods: %w", err)
	}
	err = s.exec(ctx, sq.Insert(tableSolids).Options("OR REPLACE").
		Columns("id", "timestamp", "foods").
		Values(sol.ID, sol.Timestamp, string(encoded)))
	if err != nil {
		return "", err
	}
	return sol.ID, nil
}

// ListFeedings returns feedings at or after sinceMs, oldest first.
func (s *Store) ListFeedings(ctx context.Context, sinceMs int64) ([]model.Feeding, error) {
	rows, err := s.query(ctx, sq.Select("id", "timestamp", "ounces").
		From(tableFeedings).
		Where(sq.GtOrEq{"timestamp": sinceMs}).
		OrderBy("timestamp ASC"))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.Feeding
	for rows.Next() {
		var f model.Feeding
		if err := rows.Scan(&f.ID, &f.Timestamp, &f.Ounces); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListNursing returns nursing sessions attributed to sinceMs or later, oldest first.
func (s *Store) ListNursing(ctx context.Context, sinceMs int64) ([]model.NursingSession, error) {
	at := "CASE WHEN timestamp > 0 THEN timestamp ELSE start_time END"
	rows, err := s.query(ctx, sq.Select("id", "timestamp", "start_time", "left_duration_sec", "right_duration_sec").
		From(tableNursing).
		Where(sq.Expr(at+" >= ?", sinceMs)).
		OrderBy(at + " ASC"))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.NursingSession
	for rows.Next() {
		var n model.NursingSession
		if err := rows.Scan(&n.ID, &n.Timestamp, &n.StartTime, &n.LeftDurationSec, &n.RightDurationSec); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListSolids returns solids sessions at or after sinceMs, oldest first.
func (s *Store) ListSolids(ctx context.Context, sinceMs int64) ([]model.SolidsSession, error) {
	rows, err := s.query(ctx, sq.Select("id", "timestamp", "foods").
		From(tableSolids).
		Where(sq.GtOrEq{"timestamp": sinceMs}).
		OrderBy("timestamp ASC"))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.SolidsSession
	for rows.Next() {
		var sol model.SolidsSession
		var foods string
		if err := rows.Scan(&sol.ID, &sol.Timestamp, &foods); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(foods), &sol.Foods); err != nil {
			return nil, fmt.Errorf("failed to decode foods for %s: %w", sol.ID, err)
		}
		result = append(result, sol)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

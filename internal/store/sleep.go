package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/verte-zerg/tinytracker/internal/model"
)

var sleepColumns = []string{"id", "start_time", "end_time", "is_active"}

// InsertSleep stores a sleep session and returns its ID.
func (s *Store) InsertSleep(ctx context.Context, sl model.SleepSession) (string, error) {
	sl.ID = ensureID(sl.ID)
	err := s.exec(ctx, sq.Insert(tableSleep).Options("OR REPLACE").
		Columns(sleepColumns...).
		Values(sl.ID, sl.StartTime, nullableEnd(sl.EndTime), sl.IsActive))
	if err != nil {
		return "", err
	}
	return sl.ID, nil
}

// ListSleep returns sleep sessions that end at or after sinceMs, or are still
// active, oldest start first.
func (s *Store) ListSleep(ctx context.Context, sinceMs int64) ([]model.SleepSession, error) {
	rows, err := s.query(ctx, sq.Select(sleepColumns...).
		From(tableSleep).
		Where(sq.Or{
			sq.GtOrEq{"end_time": sinceMs},
			sq.GtOrEq{"start_time": sinceMs},
			sq.Eq{"end_time": nil},
		}).
		OrderBy("start_time ASC"))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.SleepSession
	for rows.Next() {
		sl, err := scanSleep(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ActiveSleep returns the in-progress sleep session, or nil when none is active.
func (s *Store) ActiveSleep(ctx context.Context) (*model.SleepSession, error) {
	query, args, err := sq.Select(sleepColumns...).
		From(tableSleep).
		Where(sq.Eq{"is_active": true, "end_time": nil}).
		OrderBy("start_time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	sl, err := scanSleep(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sl, nil
}

// StartSleep begins a sleep session at startMs.
func (s *Store) StartSleep(ctx context.Context, startMs int64) (model.SleepSession, error) {
	active, err := s.ActiveSleep(ctx)
	if err != nil {
		return model.SleepSession{}, err
	}
	if active != nil {
		return model.SleepSession{}, ErrSleepActive
	}
	sl := model.SleepSession{StartTime: startMs, IsActive: true}
	id, err := s.InsertSleep(ctx, sl)
	if err != nil {
		return model.SleepSession{}, err
	}
	sl.ID = id
	return sl, nil
}

// StopSleep ends the active sleep session at endMs. It returns ErrEndBeforeStart
// when endMs precedes the session start.
func (s *Store) StopSleep(ctx context.Context, endMs int64) (model.SleepSession, error) {
	active, err := s.ActiveSleep(ctx)
	if err != nil {
		return model.SleepSession{}, err
	}
	if active == nil {
		return model.SleepSession{}, ErrNoActiveSleep
	}
	if endMs < active.StartTime {
		return model.SleepSession{}, ErrEndBeforeStart
	}
	err = s.exec(ctx, sq.Update(tableSleep).
		Set("end_time", endMs).
		Set("is_active", false).
		Where(sq.Eq{"id": active.ID}))
	if err != nil {
		return model.SleepSession{}, err
	}
	active.EndTime = endMs
	active.IsActive = false
	return *active, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSleep(row rowScanner) (model.SleepSession, error) {
	var sl model.SleepSession
	var end sql.NullInt64
	if err := row.Scan(&sl.ID, &sl.StartTime, &end, &sl.IsActive); err != nil {
		return model.SleepSession{}, err
	}
	if end.Valid {
		sl.EndTime = end.Int64
	}
	return sl, nil
}

func nullableEnd(endMs int64) any {
	if endMs <= 0 {
		return nil
	}
	return endMs
}

package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"courtwatch/internal/db"
	"courtwatch/internal/entities"
)

// SnapshotRepository persists computed day snapshots in the court_lists
// table. Rows flagged for_email are the ones a notification was sent from.
type SnapshotRepository struct {
	DB *sql.DB
}

func NewSnapshotRepository(database *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{DB: database}
}

// LatestFresh returns the most recent cached snapshot for dateFor created
// after cutoff, or nil when the cache is cold. Only for_email = false rows
// qualify: notified rows hold filtered snapshots and must never be served as
// the unfiltered cache.
func (r *SnapshotRepository) LatestFresh(dateFor string, cutoff time.Time) (*entities.SnapshotRecord, error) {
	query := `
		SELECT id, court_list, date_for, for_email, created_at
		FROM court_lists
		WHERE date_for = $1 AND for_email = false AND created_at > $2
		ORDER BY created_at DESC
		LIMIT 1`

	var row db.CourtList
	err := r.DB.QueryRow(query, dateFor, cutoff).Scan(&row.ID, &row.CourtList, &row.DateFor, &row.ForEmail, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying snapshot cache: %w", err)
	}
	return recordFromRow(row)
}

// Save inserts a snapshot row and returns it with its generated fields.
func (r *SnapshotRepository) Save(dateFor string, courts entities.DaySnapshot, forEmail bool) (*entities.SnapshotRecord, error) {
	payload, err := json.Marshal(courts)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot for %s: %w", dateFor, err)
	}

	rec := &entities.SnapshotRecord{DateFor: dateFor, Courts: courts, ForEmail: forEmail}
	query := `
		INSERT INTO court_lists (court_list, date_for, for_email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	if err := r.DB.QueryRow(query, string(payload), dateFor, forEmail).Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("error inserting snapshot: %w", err)
	}
	return rec, nil
}

// LastEmailEntries returns, for each of the given date labels, the newest row
// that was flagged for a notification.
func (r *SnapshotRepository) LastEmailEntries(dates []string) ([]entities.SnapshotRecord, error) {
	query := `
		WITH ranked AS (
			SELECT *,
				ROW_NUMBER() OVER (PARTITION BY date_for ORDER BY created_at DESC) AS rn
			FROM court_lists
			WHERE date_for = ANY($1) AND for_email = true
		)
		SELECT id, court_list, date_for, for_email, created_at
		FROM ranked
		WHERE rn = 1
		ORDER BY created_at DESC`

	rows, err := r.DB.Query(query, pq.Array(dates))
	if err != nil {
		return nil, fmt.Errorf("error querying last email entries: %w", err)
	}
	defer rows.Close()

	var records []entities.SnapshotRecord
	for rows.Next() {
		var row db.CourtList
		if err := rows.Scan(&row.ID, &row.CourtList, &row.DateFor, &row.ForEmail, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning email entry: %w", err)
		}
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating email entries: %w", err)
	}
	return records, nil
}

// DeleteOlderThan purges cache rows created before the cutoff and reports how
// many were removed.
func (r *SnapshotRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM court_lists WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error purging old snapshots: %w", err)
	}
	return result.RowsAffected()
}

func recordFromRow(row db.CourtList) (*entities.SnapshotRecord, error) {
	rec := &entities.SnapshotRecord{
		ID:        row.ID,
		DateFor:   row.DateFor,
		ForEmail:  row.ForEmail,
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.CourtList), &rec.Courts); err != nil {
		return nil, fmt.Errorf("decoding snapshot row %d: %w", row.ID, err)
	}
	return rec, nil
}

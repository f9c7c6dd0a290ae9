package log

import (
	"database/sql"
	"fmt"
	"time"
)

// Entry is one stored log event.
type Entry struct {
	ID         int64
	InsertedAt time.Time
	Event      string // raw JSON
}

// DefaultLimit caps Since queries that pass a non-positive limit.
const DefaultLimit = 100

func handle() (*sql.DB, error) {
	mu.RLock()
	defer mu.RUnlock()
	if journal == nil {
		return nil, ErrNotInitialized
	}
	return journal.db, nil
}

func parseTimestamp(ts string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

func scan(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		var inserted string
		if err := rows.Scan(&e.ID, &inserted, &e.Event); err != nil {
			return nil, fmt.Errorf("log: scan journal row: %w", err)
		}
		e.InsertedAt = parseTimestamp(inserted)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("log: iterate journal: %w", err)
	}
	return entries, nil
}

// LastN returns the n most recent entries, oldest first.
func LastN(n int) ([]Entry, error) {
	db, err := handle()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Entry{}, nil
	}
	rows, err := db.Query(`SELECT id, inserted_at, event FROM journal ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("log: query last %d entries: %w", n, err)
	}
	entries, err := scan(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// SinceInit returns the entries written since Init was called.
func SinceInit() ([]Entry, error) {
	return LastN(int(writesSinceInit.Load()))
}

// Since returns entries whose event time is not before start, in event
// time order. A non-positive limit means DefaultLimit.
func Since(start time.Time, limit int) ([]Entry, error) {
	db, err := handle()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := db.Query(`
        SELECT id, inserted_at, event
        FROM journal
        WHERE json_extract(event, '$.time') >= ?
        ORDER BY json_extract(event, '$.time') ASC, id ASC
        LIMIT ?`, start.UTC().Format(timeFieldFormat), limit)
	if err != nil {
		return nil, fmt.Errorf("log: query entries since %s: %w", start.Format(time.RFC3339), err)
	}
	return scan(rows)
}

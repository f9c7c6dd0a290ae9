// Package log is the process-wide zerolog logger. Events go to a console
// writer on stderr and, once Init has been called, are also appended as JSON
// rows to an SQLite journal that the CLI can read back.
package log

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var (
	mu        sync.RWMutex
	pkgLogger = zerolog.Nop()
	level     = zerolog.InfoLevel
	journal   *journalWriter

	writesSinceInit atomic.Int64

	// ErrNotInitialized is returned by journal queries before Init.
	ErrNotInitialized = errors.New("log: journal not initialized, call log.Init() first")
)

// Journal queries compare event times as strings, so stamps are UTC with a
// fixed-width fraction.
const timeFieldFormat = "2006-01-02T15:04:05.000000000Z07:00"

var now = time.Now

// journalWriter stores every log event as one row.
type journalWriter struct {
	mu   sync.Mutex
	db   *sql.DB
	stmt *sql.Stmt
}

func openJournal(path string) (*journalWriter, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal %s: %w", path, err)
	}
	const schema = `
    CREATE TABLE IF NOT EXISTS journal (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        event TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_journal_time ON journal (json_extract(event, '$.time'));`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal table: %w", err)
	}
	stmt, err := db.Prepare(`INSERT INTO journal (event) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare journal insert: %w", err)
	}
	return &journalWriter{db: db, stmt: stmt}, nil
}

func (w *journalWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.stmt.Exec(string(p)); err != nil {
		return 0, err
	}
	writesSinceInit.Add(1)
	return len(p), nil
}

func (w *journalWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Join(w.stmt.Close(), w.db.Close())
}

func console(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}

// SetStd sends events at or above lvl to stderr. Unknown level names fall
// back to info.
func SetStd(lvl string) {
	mu.Lock()
	defer mu.Unlock()
	level = parseLevel(lvl)
	rebuild(console(os.Stderr))
}

// SetOutput redirects console output, mostly for tests.
func SetOutput(out io.Writer, lvl string) {
	mu.Lock()
	defer mu.Unlock()
	level = parseLevel(lvl)
	rebuild(zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339})
}

func parseLevel(lvl string) zerolog.Level {
	l, err := zerolog.ParseLevel(lvl)
	if err != nil || lvl == "" {
		return zerolog.InfoLevel
	}
	return l
}

// rebuild must run with mu held.
func rebuild(out io.Writer) {
	var w io.Writer = out
	if journal != nil {
		w = zerolog.MultiLevelWriter(out, journal)
	}
	zerolog.TimeFieldFormat = timeFieldFormat
	zerolog.TimestampFunc = func() time.Time { return now().UTC() }
	pkgLogger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Init opens (or creates) the SQLite journal at path and tees all further
// events into it.
func Init(path string) error {
	if path == "" {
		return errors.New("log: journal path is empty")
	}
	mu.Lock()
	defer mu.Unlock()
	if journal != nil {
		return errors.New("log: journal already initialized")
	}
	w, err := openJournal(path)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	journal = w
	writesSinceInit.Store(0)
	rebuild(console(os.Stderr))
	return nil
}

// Close flushes and closes the journal. Console logging continues.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if journal == nil {
		return nil
	}
	w := journal
	journal = nil
	rebuild(console(os.Stderr))
	if err := w.close(); err != nil {
		return fmt.Errorf("log: close journal: %w", err)
	}
	return nil
}

func logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := pkgLogger
	return &l
}

func Debug() *zerolog.Event { return logger().Debug() }
func Info() *zerolog.Event  { return logger().Info() }
func Warn() *zerolog.Event  { return logger().Warn() }
func Error() *zerolog.Event { return logger().Error() }

// Printf logs at info level. Arguments are handled in the manner of fmt.Printf.
func Printf(format string, v ...any) {
	logger().Info().CallerSkipFrame(1).Msgf(format, v...)
}

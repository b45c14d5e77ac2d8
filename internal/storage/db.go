package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"shortages/internal"
	"shortages/internal/logging"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// storedSnapshot keeps items as raw JSON so that a missing or null list can be
// told apart from an empty one.
type storedSnapshot struct {
	Items      json.RawMessage      `json:"items"`
	FontConfig *internal.FontConfig `json:"fontConfig"`
}

// SaveSnapshot overwrites the snapshot stored under key.
func (d *DB) SaveSnapshot(key string, snap internal.Snapshot) error {
	if snap.Items == nil {
		snap.Items = []internal.ShortageItem{}
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := d.SetMetadata(key, string(raw)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot never fails: anything it cannot read is replaced by defaults,
// with newID naming the placeholder row.
func (d *DB) LoadSnapshot(key string, newID func() string, logger *zap.Logger) internal.Snapshot {
	logger = logging.OrNop(logger)

	value, err := d.GetMetadata(key)
	if err != nil {
		logger.Warn("snapshot read failed, using defaults", zap.String("key", key), zap.Error(err))
		return DefaultSnapshot(newID)
	}
	if value == nil {
		return DefaultSnapshot(newID)
	}
	return DecodeSnapshot([]byte(*value), newID, logger)
}

// DecodeSnapshot applies the same fallbacks as LoadSnapshot to a raw value.
func DecodeSnapshot(raw []byte, newID func() string, logger *zap.Logger) internal.Snapshot {
	logger = logging.OrNop(logger)

	var stored storedSnapshot
	if err := json.Unmarshal(raw, &stored); err != nil {
		logger.Warn("snapshot is corrupt, using defaults", zap.Error(err))
		return DefaultSnapshot(newID)
	}

	snap := DefaultSnapshot(newID)
	if len(stored.Items) > 0 && string(stored.Items) != "null" {
		var items []internal.ShortageItem
		if err := json.Unmarshal(stored.Items, &items); err != nil {
			logger.Warn("snapshot items are corrupt, using defaults", zap.Error(err))
		} else {
			snap.Items = items
		}
	}
	if stored.FontConfig != nil {
		snap.FontConfig = stored.FontConfig.Sanitize()
	}
	return snap
}

// DefaultSnapshot is one blank item and the default font.
func DefaultSnapshot(newID func() string) internal.Snapshot {
	return internal.Snapshot{
		Items:      []internal.ShortageItem{{ID: newID()}},
		FontConfig: internal.DefaultFontConfig(),
	}
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListEmailsByStatus returns up to limit emails in status, oldest first. An
// empty provider matches every provider.
func (d *DB) ListEmailsByStatus(status, provider string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE status = ? AND (? = '' OR provider = ?)
ORDER BY receivedAt ASC, id ASC LIMIT ?
`, status, provider, provider, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		var row internal.EmailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

func (d *DB) InsertRun(traceID, source string, counts map[string]int) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, source, countsJson) VALUES (?, ?, ?)`, traceID, source, string(countsJSON))
	return err
}

// ListRuns returns the latest runs first.
func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	rows, err := d.conn.Query(`SELECT id, traceId, source, countsJson, createdAt FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		var row internal.RunRow
		var countsJSON string
		if err := rows.Scan(&row.ID, &row.TraceID, &row.Source, &countsJSON, &row.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(countsJSON), &row.Counts)
		out = append(out, row)
	}
	return out, rows.Err()
}

// SnapshotPersister saves every snapshot it is handed under one key.
type SnapshotPersister struct {
	db  *DB
	key string
}

func NewSnapshotPersister(db *DB, key string) *SnapshotPersister {
	return &SnapshotPersister{db: db, key: key}
}

func (p *SnapshotPersister) Persist(snap internal.Snapshot) error {
	return p.db.SaveSnapshot(p.key, snap)
}

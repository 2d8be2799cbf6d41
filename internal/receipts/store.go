// Package receipts remembers registrations created from this terminal so
// their detail and invoice views can be reopened later. Only identity and a
// display name are kept; registration bodies always come from the backend.
package receipts

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/pubsub"
	"github.com/ccj16/regdesk/internal/registration"
)

//go:embed schema.sql
var schemaV1 string

// migrations[i] upgrades user_version i to i+1.
var migrations = []string{schemaV1}

// ErrNotFound is returned by Get for unknown keys.
var ErrNotFound = errors.New("receipt not found")

// Receipt identifies one registration created here.
type Receipt struct {
	SecurityKey string
	DisplayName string
	Email       string
	WaitingList bool
	CreatedAt   time.Time
}

// FromRegistration builds a receipt for a saved registration.
func FromRegistration(r *registration.Registration, at time.Time) (Receipt, error) {
	if r == nil || !r.Saved() {
		return Receipt{}, fmt.Errorf("registration has no security key")
	}
	return Receipt{
		SecurityKey: r.SecurityKey,
		DisplayName: r.DisplayName(),
		Email:       r.ContactLeaderEmail,
		WaitingList: r.IsOnWaitingList,
		CreatedAt:   at.UTC(),
	}, nil
}

// Store is a sqlite-backed receipts table.
type Store struct {
	db     *sql.DB
	path   string
	broker *pubsub.Broker[Receipt]
}

// Open opens or creates the receipts database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("receipts path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating receipts directory: %w", err)
	}

	log.Debug(log.CatReceipts, "opening database", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		log.ErrorErr(log.CatReceipts, "failed to open database", err, "path", path)
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatReceipts, "failed to ping database", err, "path", path)
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info(log.CatReceipts, "receipts ready", "path", path)
	return &Store{db: db, path: path, broker: pubsub.NewBroker[Receipt]()}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for v := version; v < len(migrations); v++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("migrating to v%d: %w", v+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrating to v%d: %w", v+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrating to v%d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migrating to v%d: %w", v+1, err)
		}
		log.Info(log.CatReceipts, "migrated schema", "version", v+1)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Add inserts r, or refreshes the name, email and waiting-list flag of an
// existing receipt with the same key. CreatedAt of an existing row is kept.
func (s *Store) Add(ctx context.Context, r Receipt) error {
	if r.SecurityKey == "" {
		return fmt.Errorf("receipt has no security key")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO receipts (security_key, display_name, email, waiting_list, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (security_key) DO UPDATE SET
			display_name = excluded.display_name,
			email        = excluded.email,
			waiting_list = excluded.waiting_list`,
		r.SecurityKey, r.DisplayName, r.Email, r.WaitingList, r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		log.ErrorErr(log.CatReceipts, "add failed", err, "key", r.SecurityKey)
		return fmt.Errorf("adding receipt: %w", err)
	}

	n, _ := res.RowsAffected()
	log.Debug(log.CatReceipts, "receipt stored", "key", r.SecurityKey, "rows", n)
	s.broker.Publish(pubsub.UpdatedEvent, r)
	return nil
}

// Get returns the receipt for key.
func (s *Store) Get(ctx context.Context, key string) (Receipt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT security_key, display_name, email, waiting_list, created_at
		FROM receipts WHERE security_key = ?`, key)
	r, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{}, ErrNotFound
	}
	return r, err
}

// List returns all receipts, newest first.
func (s *Store) List(ctx context.Context) ([]Receipt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT security_key, display_name, email, waiting_list, created_at
		FROM receipts ORDER BY created_at DESC, security_key`)
	if err != nil {
		log.ErrorErr(log.CatReceipts, "list failed", err)
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Receipt{}
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Remove deletes the receipt for key. Removing an unknown key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM receipts WHERE security_key = ?`, key); err != nil {
		return fmt.Errorf("removing receipt: %w", err)
	}
	s.broker.Publish(pubsub.DeletedEvent, Receipt{SecurityKey: key})
	return nil
}

// Subscribe delivers changes made through this Store until ctx ends.
func (s *Store) Subscribe(ctx context.Context) <-chan pubsub.Event[Receipt] {
	return s.broker.Subscribe(ctx)
}

// Listener delivers receipt changes to a Bubble Tea model.
type Listener = pubsub.ContinuousListener[Receipt]

// NewListener follows s until ctx is done. Saves arrive as
// pubsub.UpdatedEvent and removals as pubsub.DeletedEvent carrying only
// the security key.
func NewListener(ctx context.Context, s *Store) *Listener {
	return pubsub.NewContinuousListener[Receipt](ctx, s)
}

// Close releases the database.
func (s *Store) Close() error {
	s.broker.Close()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Receipt, error) {
	var (
		r       Receipt
		created string
	)
	if err := row.Scan(&r.SecurityKey, &r.DisplayName, &r.Email, &r.WaitingList, &created); err != nil {
		return Receipt{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt %s: bad created_at %q: %w", r.SecurityKey, created, err)
	}
	r.CreatedAt = t
	return r, nil
}

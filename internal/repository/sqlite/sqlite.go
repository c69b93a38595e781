package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"netorg/internal/domain"
	"netorg/internal/netspace"
	"netorg/internal/repository"
)

var _ repository.Repository = (*Store)(nil)

// Store keeps fixed IP reservations and DHCP leases in SQLite
type Store struct {
	db     *sql.DB
	subnet string
	log    logrus.FieldLogger
	now    func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithClock replaces time.Now, for lease expiry
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New opens (creating if needed) the database at dbPath. subnet is the VLAN
// that Save maps reservations into.
func New(dbPath, subnet string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps :memory: databases whole and serializes writers
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		subnet: subnet,
		log:    logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reservations (
		mac TEXT PRIMARY KEY,
		name TEXT,
		ip TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(ip)
	);

	CREATE TABLE IF NOT EXISTS leases (
		mac TEXT PRIMARY KEY,
		ip TEXT NOT NULL,
		hostname TEXT,
		expires_at DATETIME NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_leases_expires ON leases(expires_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load returns every fixed IP reservation in insertion order
func (s *Store) Load(ctx context.Context) ([]domain.FixedIPReservation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.FixedIPReservation
	for rows.Next() {
		var row reservationRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}

	s.log.Debugf("Loaded %d fixed IP reservations", len(reservations))
	return reservations, nil
}

// Save maps the table into the VLAN subnet, which fills in missing
// addresses on the table itself, then replaces the stored reservations with
// the table's persistable rows. Nothing is written when mapping fails.
func (s *Store) Save(ctx context.Context, table *domain.DeviceTable) error {
	mapper := netspace.NewMapper(s.subnet, netspace.WithLogger(s.log))
	if err := mapper.Map(table); err != nil {
		return fmt.Errorf("map network %s: %w", s.subnet, err)
	}

	for _, d := range table.Filter(domain.IsStaleReservation) {
		s.log.Debugf("Dropping stale reservation %s,%s %s", d.Name, d.MAC, d.IP)
	}
	reservations := domain.ReservationsView(table)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations`); err != nil {
		return fmt.Errorf("failed to clear reservations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO reservations (`+reservationColumns+`) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare reservation statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range reservations {
		if _, err := stmt.ExecContext(ctx, r.MAC, stringToNull(r.Name), r.IP); err != nil {
			return fmt.Errorf("failed to insert reservation %s: %w", r.MAC, err)
		}
	}

	if err := s.setMetadata(ctx, tx, "last_save", s.now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Infof("Saved %d fixed IP reservations on %s", len(reservations), s.subnet)
	return nil
}

// RecordLeases upserts DHCP leases that expire at expires
func (s *Store) RecordLeases(ctx context.Context, clients []domain.ActiveClient, expires time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leases (`+leaseColumns+`, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(mac) DO UPDATE SET
			ip = excluded.ip,
			hostname = COALESCE(excluded.hostname, leases.hostname),
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare lease statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range clients {
		if _, err := stmt.ExecContext(ctx, c.MAC, c.IP, stringToNull(c.Name), dbTime(expires)); err != nil {
			return fmt.Errorf("failed to record lease %s: %w", c.MAC, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Debugf("Recorded %d leases", len(clients))
	return nil
}

// ActiveLeases returns the leases that have not expired
func (s *Store) ActiveLeases(ctx context.Context) ([]domain.ActiveClient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+leaseColumns+` FROM leases
		WHERE expires_at > ?
		ORDER BY rowid
	`, dbTime(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to query leases: %w", err)
	}
	defer rows.Close()

	var clients []domain.ActiveClient
	for rows.Next() {
		var row leaseRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan lease: %w", err)
		}
		clients = append(clients, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leases: %w", err)
	}
	return clients, nil
}

// PruneLeases deletes expired leases and returns how many were removed
func (s *Store) PruneLeases(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leases WHERE expires_at <= ?`, dbTime(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to prune leases: %w", err)
	}
	return res.RowsAffected()
}

// LastSave returns when reservations were last saved; ok is false if never
func (s *Store) LastSave(ctx context.Context) (t time.Time, ok bool, err error) {
	var value string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'last_save'`).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query metadata: %w", err)
	}
	t, err = time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("bad last_save timestamp %q: %w", value, err)
	}
	return t, true, nil
}

func (s *Store) setMetadata(ctx context.Context, tx *sql.Tx, key, value string) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// dbTime normalizes times so stored values compare as strings
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// LeaseSource adapts the lease table to an active clients source
type LeaseSource struct {
	store *Store
}

// NewLeaseSource wraps store
func NewLeaseSource(store *Store) *LeaseSource {
	return &LeaseSource{store: store}
}

// Name returns the source identifier
func (l *LeaseSource) Name() string {
	return "sqlite"
}

// Load returns the unexpired leases
func (l *LeaseSource) Load(ctx context.Context) ([]domain.ActiveClient, error) {
	return l.store.ActiveLeases(ctx)
}

package sqlite

import (
	"database/sql"
	"time"

	"netorg/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a column to the reservations table:
// 1. Add field to reservationRow
// 2. Append it to scanArgs() and reservationColumns in the same position
// 3. Map it in toDomain()
// 4. Add the column to the CREATE TABLE in migrate(), plus an
//    ALTER TABLE ... ADD COLUMN step for databases created before it
//
// Column order must match between reservationColumns and scanArgs().
// Same pattern applies to leases.

// ============================================================================
// Reservation Row Scanner
// ============================================================================

type reservationRow struct {
	mac  string
	name sql.NullString
	ip   string
}

// scanArgs MUST match reservationColumns order: mac, name, ip
func (r *reservationRow) scanArgs() []interface{} {
	return []interface{}{&r.mac, &r.name, &r.ip}
}

func (r *reservationRow) toDomain() domain.FixedIPReservation {
	return domain.FixedIPReservation{
		MAC:  r.mac,
		Name: nullToString(r.name),
		IP:   r.ip,
	}
}

const reservationColumns = `mac, name, ip`

// ============================================================================
// Lease Row Scanner
// ============================================================================

type leaseRow struct {
	mac       string
	ip        string
	hostname  sql.NullString
	expiresAt time.Time
}

// scanArgs MUST match leaseColumns order: mac, ip, hostname, expires_at
func (r *leaseRow) scanArgs() []interface{} {
	return []interface{}{&r.mac, &r.ip, &r.hostname, &r.expiresAt}
}

func (r *leaseRow) toDomain() domain.ActiveClient {
	return domain.ActiveClient{
		MAC:  r.mac,
		Name: nullToString(r.hostname),
		IP:   r.ip,
	}
}

const leaseColumns = `mac, ip, hostname, expires_at`

package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lucasnoah/complyd/internal/checks"
)

// Scan represents a row in the scans table.
type Scan struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	Format       string    `json:"format"`
	Framework    string    `json:"framework"`
	Passed       int       `json:"passed"`
	Failed       int       `json:"failed"`
	Score        float64   `json:"score"`
	Threshold    float64   `json:"threshold"`
	Compliant    bool      `json:"compliant"`
	ContentBytes int       `json:"content_bytes"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// ScanResult represents a row in the scan_results table.
type ScanResult struct {
	ID          int    `json:"id"`
	ScanID      string `json:"scan_id"`
	Position    int    `json:"position"`
	ControlID   string `json:"control_id"`
	ControlName string `json:"control_name"`
	Category    string `json:"category"`
	Passed      bool   `json:"passed"`
	Severity    string `json:"severity"`
	Details     string `json:"details"`
	Remediation string `json:"remediation"`
	Evidence    string `json:"evidence"`
}

// LogScan stores a report and its per-control results in one transaction.
func (d *DB) LogScan(rep *checks.Report) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO scans (id, path, format, framework, passed, failed, score, threshold, compliant, content_bytes, scanned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.Source, rep.Format, rep.Framework, rep.Passed, rep.Failed,
		rep.Score, rep.Threshold, rep.Compliant, rep.ContentBytes,
		rep.ScannedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log scan: %w", err)
	}

	for i, r := range rep.Results {
		_, err := tx.Exec(
			`INSERT INTO scan_results (scan_id, position, control_id, control_name, category, passed, severity, details, remediation, evidence)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rep.ID, i, r.ControlID, r.ControlName, r.Category, r.Passed,
			string(r.Severity), r.Details, r.Remediation, r.Evidence,
		)
		if err != nil {
			return fmt.Errorf("log scan result %s: %w", r.ControlID, err)
		}
	}
	return tx.Commit()
}

const scanColumns = `id, path, format, framework, passed, failed, score, threshold, compliant, content_bytes, scanned_at`

func scanRow(row interface{ Scan(...any) error }) (*Scan, error) {
	var s Scan
	var scannedAt string
	if err := row.Scan(&s.ID, &s.Path, &s.Format, &s.Framework, &s.Passed, &s.Failed,
		&s.Score, &s.Threshold, &s.Compliant, &s.ContentBytes, &scannedAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, scannedAt)
	if err != nil {
		return nil, fmt.Errorf("parse scanned_at %q: %w", scannedAt, err)
	}
	s.ScannedAt = t
	return &s, nil
}

// GetScan returns the scan with the given ID, or nil if none exists.
func (d *DB) GetScan(id string) (*Scan, error) {
	row := d.conn.QueryRow(`SELECT `+scanColumns+` FROM scans WHERE id = ?`, id)
	s, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scan: %w", err)
	}
	return s, nil
}

// GetScanResults returns the per-control results of a scan in framework order.
func (d *DB) GetScanResults(scanID string) ([]ScanResult, error) {
	rows, err := d.conn.Query(
		`SELECT id, scan_id, position, control_id, control_name, category, passed, severity, details, remediation, evidence
		 FROM scan_results WHERE scan_id = ? ORDER BY position`,
		scanID,
	)
	if err != nil {
		return nil, fmt.Errorf("get scan results: %w", err)
	}
	defer rows.Close()

	var results []ScanResult
	for rows.Next() {
		var r ScanResult
		var category, details, remediation, evidence sql.NullString
		if err := rows.Scan(&r.ID, &r.ScanID, &r.Position, &r.ControlID, &r.ControlName, &category,
			&r.Passed, &r.Severity, &details, &remediation, &evidence); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		r.Category = category.String
		r.Details = details.String
		r.Remediation = remediation.String
		r.Evidence = evidence.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListScans returns the most recent scans, newest first. A non-empty path
// restricts the list to that file; limit <= 0 means no limit.
func (d *DB) ListScans(path string, limit int) ([]Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM scans`
	var args []any
	if path != "" {
		query += ` WHERE path = ?`
		args = append(args, path)
	}
	query += ` ORDER BY scanned_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("list scans row: %w", err)
		}
		scans = append(scans, *s)
	}
	return scans, rows.Err()
}

// DeleteScan removes a scan and its results. It reports whether a row was deleted.
func (d *DB) DeleteScan(id string) (bool, error) {
	res, err := d.conn.Exec(`DELETE FROM scans WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete scan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete scan: %w", err)
	}
	return n > 0, nil
}

package activity

import (
	"fmt"

	"github.com/lunyk/kindred/internal/apperr"
)

// Mark holds the visited/saved flags for one link hash.
type Mark struct {
	Visited bool
	Saved   bool
}

// MarkVisited records that the link with the given hash was opened.
func (s *Store) MarkVisited(hash string) error {
	_, err := s.conn.Exec(`
		INSERT INTO link_marks (hash, visited, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(hash) DO UPDATE SET
			visited    = 1,
			updated_at = CURRENT_TIMESTAMP
	`, hash)
	if err != nil {
		return fmt.Errorf("activity: mark visited: %w", err)
	}
	return nil
}

// MarkSaved records that the link with the given hash was kept as a note.
func (s *Store) MarkSaved(hash string) error {
	_, err := s.conn.Exec(`
		INSERT INTO link_marks (hash, saved, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(hash) DO UPDATE SET
			saved      = 1,
			updated_at = CURRENT_TIMESTAMP
	`, hash)
	if err != nil {
		return fmt.Errorf("activity: mark saved: %w", err)
	}
	return nil
}

// AllMarks returns the visited/saved flags of every known link hash.
func (s *Store) AllMarks() (map[string]Mark, error) {
	rows, err := s.conn.Query(`SELECT hash, visited, saved FROM link_marks`)
	if err != nil {
		return nil, fmt.Errorf("activity: all marks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Mark)
	for rows.Next() {
		var hash string
		var visited, saved int
		if err := rows.Scan(&hash, &visited, &saved); err != nil {
			return nil, err
		}
		out[hash] = Mark{Visited: visited != 0, Saved: saved != 0}
	}
	return out, rows.Err()
}

// HideLink hides the template behind hash for one record. An empty recordID
// hides it everywhere.
func (s *Store) HideLink(recordID, hash string) error {
	_, err := s.conn.Exec(
		`INSERT OR IGNORE INTO hidden_links (record_id, hash) VALUES (?, ?)`,
		recordID, hash)
	if err != nil {
		return fmt.Errorf("activity: hide link: %w", err)
	}
	return nil
}

// UnhideLink removes a hide entry. Unhiding a hash that was never hidden
// for the record yields apperr.ErrNotFound.
func (s *Store) UnhideLink(recordID, hash string) error {
	res, err := s.conn.Exec(
		`DELETE FROM hidden_links WHERE record_id = ? AND hash = ?`,
		recordID, hash)
	if err != nil {
		return fmt.Errorf("activity: unhide link: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("activity: unhide link %q: %w", hash, apperr.ErrNotFound)
	}
	return nil
}

// HiddenFor returns the hashes hidden for the record, including the
// globally hidden ones.
func (s *Store) HiddenFor(recordID string) (map[string]struct{}, error) {
	rows, err := s.conn.Query(
		`SELECT hash FROM hidden_links WHERE record_id = ? OR record_id = ''`,
		recordID)
	if err != nil {
		return nil, fmt.Errorf("activity: hidden for record: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out[h] = struct{}{}
	}
	return out, rows.Err()
}

// SkipDomain marks a suggestion domain as irrelevant to the user.
func (s *Store) SkipDomain(domain string) error {
	_, err := s.conn.Exec(
		`INSERT OR IGNORE INTO skipped_domains (domain) VALUES (?)`, domain)
	if err != nil {
		return fmt.Errorf("activity: skip domain: %w", err)
	}
	return nil
}

// UnskipDomain makes a previously skipped domain eligible again. A domain
// that was never skipped yields apperr.ErrNotFound.
func (s *Store) UnskipDomain(domain string) error {
	res, err := s.conn.Exec(`DELETE FROM skipped_domains WHERE domain = ?`, domain)
	if err != nil {
		return fmt.Errorf("activity: unskip domain: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("activity: unskip domain %q: %w", domain, apperr.ErrNotFound)
	}
	return nil
}

// SkippedDomains returns every domain the user marked irrelevant.
func (s *Store) SkippedDomains() (map[string]struct{}, error) {
	rows, err := s.conn.Query(`SELECT domain FROM skipped_domains`)
	if err != nil {
		return nil, fmt.Errorf("activity: skipped domains: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out[d] = struct{}{}
	}
	return out, rows.Err()
}

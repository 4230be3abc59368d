// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

const (
	dbFile     = "plan.db"
	exportFile = "plan.yaml"
)

// Store persists the citation plan in a SQLite database so selections
// survive across CLI invocations. Entries keep their selection order.
type Store struct {
	db      *sql.DB
	planDir string
}

// NewStore opens or creates the plan database at planDir/plan.db, creating
// the schema if needed.
func NewStore(cfg types.PlanConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.PlanDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating plan directory: %w", err)
	}

	dbPath := filepath.Join(cfg.PlanDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, planDir: cfg.PlanDir}
	if err := s.createSchema(cfg.MaxCount); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema(maxCount int) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS plan_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			max_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS selections (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			pmid TEXT,
			doi TEXT,
			title TEXT,
			authors TEXT,
			journal TEXT,
			journal_iso_abbrev TEXT,
			year INTEGER,
			volume TEXT,
			issue TEXT,
			pages TEXT,
			publication_types TEXT,
			url TEXT,
			abstract TEXT,
			use_for TEXT,
			priority INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_selections_pmid ON selections(pmid)`,
		`CREATE INDEX IF NOT EXISTS idx_selections_doi ON selections(doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	if maxCount <= 0 {
		maxCount = 30
	}
	_, err := s.db.Exec(
		`INSERT INTO plan_meta (id, max_count) VALUES (1, ?)
		 ON CONFLICT(id) DO NOTHING`, maxCount)
	if err != nil {
		return fmt.Errorf("initializing plan meta: %w", err)
	}
	return nil
}

// Add appends one selection to the stored plan.
func (s *Store) Add(ctx context.Context, cu types.CitationUse) error {
	authorsJSON, _ := json.Marshal(cu.Citation.Authors)
	pubTypesJSON, _ := json.Marshal(cu.Citation.PublicationTypes)
	useForJSON, _ := json.Marshal(cu.UseFor)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO selections
			(pmid, doi, title, authors, journal, journal_iso_abbrev, year,
			 volume, issue, pages, publication_types, url, abstract, use_for, priority)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cu.Citation.PMID, cu.Citation.DOI, cu.Citation.Title, string(authorsJSON),
		cu.Citation.Journal, cu.Citation.JournalISOAbbrev, cu.Citation.Year,
		cu.Citation.Volume, cu.Citation.Issue, cu.Citation.Pages,
		string(pubTypesJSON), cu.Citation.URL, cu.Citation.Abstract,
		string(useForJSON), cu.Priority,
	)
	if err != nil {
		return fmt.Errorf("inserting selection: %w", err)
	}
	return nil
}

// Remove deletes every stored selection matching key ("PMID:<id>" or
// "DOI:<id>") and returns the number removed.
func (s *Store) Remove(ctx context.Context, key string) (int, error) {
	kind, id, ok := splitKey(key)
	if !ok {
		return 0, fmt.Errorf("invalid citation key %q (want PMID:<id> or DOI:<id>)", key)
	}

	column := "pmid"
	if kind == types.KindDOI {
		column = "doi"
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM selections WHERE %s = ?`, column), id)
	if err != nil {
		return 0, fmt.Errorf("deleting selection: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Save replaces the stored plan with the given one in a single transaction.
func (s *Store) Save(ctx context.Context, p types.CitationPlan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM selections`); err != nil {
		return fmt.Errorf("clearing selections: %w", err)
	}

	maxCount := p.MaxCount
	if maxCount <= 0 {
		maxCount = 30
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plan_meta (id, max_count) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET max_count=excluded.max_count`, maxCount); err != nil {
		return fmt.Errorf("updating plan meta: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO selections
			(pmid, doi, title, authors, journal, journal_iso_abbrev, year,
			 volume, issue, pages, publication_types, url, abstract, use_for, priority)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, cu := range p.Selected {
		authorsJSON, _ := json.Marshal(cu.Citation.Authors)
		pubTypesJSON, _ := json.Marshal(cu.Citation.PublicationTypes)
		useForJSON, _ := json.Marshal(cu.UseFor)
		if _, err := stmt.ExecContext(ctx,
			cu.Citation.PMID, cu.Citation.DOI, cu.Citation.Title, string(authorsJSON),
			cu.Citation.Journal, cu.Citation.JournalISOAbbrev, cu.Citation.Year,
			cu.Citation.Volume, cu.Citation.Issue, cu.Citation.Pages,
			string(pubTypesJSON), cu.Citation.URL, cu.Citation.Abstract,
			string(useForJSON), cu.Priority,
		); err != nil {
			return fmt.Errorf("inserting selection %q: %w", cu.Citation.Key(), err)
		}
	}

	return tx.Commit()
}

// Load reads the full plan in selection order.
func (s *Store) Load(ctx context.Context) (types.CitationPlan, error) {
	var p types.CitationPlan

	if err := s.db.QueryRowContext(ctx,
		`SELECT max_count FROM plan_meta WHERE id = 1`).Scan(&p.MaxCount); err != nil {
		return p, fmt.Errorf("reading plan meta: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid, doi, title, authors, journal, journal_iso_abbrev, year,
			volume, issue, pages, publication_types, url, abstract, use_for, priority
		 FROM selections ORDER BY position`)
	if err != nil {
		return p, fmt.Errorf("querying selections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cu                                    types.CitationUse
			authorsJSON, pubTypesJSON, useForJSON string
		)
		if err := rows.Scan(
			&cu.Citation.PMID, &cu.Citation.DOI, &cu.Citation.Title, &authorsJSON,
			&cu.Citation.Journal, &cu.Citation.JournalISOAbbrev, &cu.Citation.Year,
			&cu.Citation.Volume, &cu.Citation.Issue, &cu.Citation.Pages,
			&pubTypesJSON, &cu.Citation.URL, &cu.Citation.Abstract,
			&useForJSON, &cu.Priority,
		); err != nil {
			return p, fmt.Errorf("scanning selection: %w", err)
		}
		json.Unmarshal([]byte(authorsJSON), &cu.Citation.Authors)
		json.Unmarshal([]byte(pubTypesJSON), &cu.Citation.PublicationTypes)
		json.Unmarshal([]byte(useForJSON), &cu.UseFor)
		p.Selected = append(p.Selected, cu)
	}
	if err := rows.Err(); err != nil {
		return p, fmt.Errorf("iterating selections: %w", err)
	}

	return p, nil
}

// ExportYAML writes the stored plan to planDir/plan.yaml for review and
// hand-editing outside the database.
func (s *Store) ExportYAML(ctx context.Context) error {
	p, err := s.Load(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	path := filepath.Join(s.planDir, exportFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// splitKey parses "PMID:<id>" / "DOI:<id>" into its parts.
func splitKey(key string) (types.CitationKind, string, bool) {
	for _, kind := range []types.CitationKind{types.KindPMID, types.KindDOI} {
		prefix := string(kind) + ":"
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			return kind, key[len(prefix):], true
		}
	}
	return "", "", false
}

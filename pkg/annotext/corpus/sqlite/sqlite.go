// Package sqlite persists the corpus in a single SQLite database file.
// Appends commit one transaction per batch, so a crash mid-write leaves the
// prior contents authoritative; the docs table doubles as the path index,
// answering membership without loading any document body.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/annotext/pkg/annotext/align"
	"github.com/cognicore/annotext/pkg/annotext/corpus"
	"github.com/cognicore/annotext/pkg/annotext/internalerr"
	"github.com/cognicore/annotext/pkg/annotext/markup"
	"github.com/cognicore/annotext/pkg/annotext/token"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens (or creates) the corpus database with WAL mode enabled.
func Open(ctx context.Context, path string) (corpus.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storeErr(err)
	}

	// WAL for better concurrency between a writer and readers
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, storeErr(err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, storeErr(err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, storeErr(err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS docs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_path TEXT UNIQUE NOT NULL,
	text TEXT NOT NULL,
	author TEXT,
	title TEXT,
	date TEXT
);

CREATE TABLE IF NOT EXISTS doc_tokens (
	doc_id INTEGER NOT NULL,
	idx INTEGER NOT NULL,
	start_off INTEGER NOT NULL,
	end_off INTEGER NOT NULL,
	PRIMARY KEY(doc_id, idx),
	FOREIGN KEY(doc_id) REFERENCES docs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS doc_spans (
	doc_id INTEGER NOT NULL,
	start_tok INTEGER NOT NULL,
	end_tok INTEGER NOT NULL,
	category TEXT NOT NULL,
	PRIMARY KEY(doc_id, start_tok),
	FOREIGN KEY(doc_id) REFERENCES docs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Append stores whole documents in a single transaction.
func (s *sqliteStore) Append(ctx context.Context, docs ...corpus.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	defer tx.Rollback()

	// Uniqueness check before any insert, for a clean error rather than a
	// constraint failure.
	for _, d := range docs {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM docs WHERE source_path=?`, d.SourcePath).Scan(&one)
		if err == nil {
			return fmt.Errorf("%w: %s", internalerr.ErrDuplicatePath, d.SourcePath)
		}
		if err != sql.ErrNoRows {
			return storeErr(err)
		}
	}

	for _, d := range docs {
		if err := insertDoc(ctx, tx, d); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr(err)
	}
	return nil
}

func insertDoc(ctx context.Context, tx *sql.Tx, d corpus.Document) error {
	var docID int64
	err := tx.QueryRowContext(ctx, `
INSERT INTO docs (source_path, text, author, title, date)
VALUES (?, ?, ?, ?, ?)
RETURNING id;
`, d.SourcePath, d.Text, d.Meta.Author, d.Meta.Title, d.Meta.Date).Scan(&docID)
	if err != nil {
		return storeErr(err)
	}

	tokStmt, err := tx.PrepareContext(ctx, `INSERT INTO doc_tokens (doc_id, idx, start_off, end_off) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return storeErr(err)
	}
	defer tokStmt.Close()
	for _, t := range d.Tokens {
		if _, err := tokStmt.ExecContext(ctx, docID, t.Index, t.Start, t.End); err != nil {
			return storeErr(err)
		}
	}

	spanStmt, err := tx.PrepareContext(ctx, `INSERT INTO doc_spans (doc_id, start_tok, end_tok, category) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return storeErr(err)
	}
	defer spanStmt.Close()
	for _, sp := range d.Spans {
		if _, err := spanStmt.ExecContext(ctx, docID, sp.Start, sp.End, sp.Category.String()); err != nil {
			return storeErr(err)
		}
	}
	return nil
}

// Load reconstructs the corpus in storage order. A fresh database yields an
// empty corpus.
func (s *sqliteStore) Load(ctx context.Context) (*corpus.Corpus, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, source_path, text, author, title, date
FROM docs
ORDER BY id;
`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	type docRow struct {
		id  int64
		doc corpus.Document
	}
	var drs []docRow
	for rows.Next() {
		var dr docRow
		if err := rows.Scan(&dr.id, &dr.doc.SourcePath, &dr.doc.Text,
			&dr.doc.Meta.Author, &dr.doc.Meta.Title, &dr.doc.Meta.Date); err != nil {
			return nil, storeErr(err)
		}
		drs = append(drs, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}

	c := corpus.New()
	for _, dr := range drs {
		doc := dr.doc
		if doc.Tokens, err = s.loadTokens(ctx, dr.id); err != nil {
			return nil, err
		}
		if doc.Spans, err = s.loadSpans(ctx, dr.id); err != nil {
			return nil, err
		}
		if err := c.Append(doc); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s *sqliteStore) loadTokens(ctx context.Context, docID int64) ([]token.Token, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT idx, start_off, end_off FROM doc_tokens WHERE doc_id=? ORDER BY idx;
`, docID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var tokens []token.Token
	for rows.Next() {
		var t token.Token
		if err := rows.Scan(&t.Index, &t.Start, &t.End); err != nil {
			return nil, storeErr(err)
		}
		tokens = append(tokens, t)
	}
	return tokens, storeErr(rows.Err())
}

func (s *sqliteStore) loadSpans(ctx context.Context, docID int64) ([]align.EntitySpan, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT start_tok, end_tok, category FROM doc_spans WHERE doc_id=? ORDER BY start_tok;
`, docID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var spans []align.EntitySpan
	for rows.Next() {
		var (
			sp  align.EntitySpan
			cat string
		)
		if err := rows.Scan(&sp.Start, &sp.End, &cat); err != nil {
			return nil, storeErr(err)
		}
		if sp.Category, err = markup.ParseCategory(cat); err != nil {
			return nil, storeErr(err)
		}
		spans = append(spans, sp)
	}
	return spans, storeErr(rows.Err())
}

// Paths returns the stored path set from the docs table alone.
func (s *sqliteStore) Paths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source_path FROM docs`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, storeErr(err)
		}
		set[p] = struct{}{}
	}
	return set, storeErr(rows.Err())
}

// Summary aggregates counts without materializing documents.
func (s *sqliteStore) Summary(ctx context.Context) (corpus.Summary, error) {
	var sum corpus.Summary
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM docs`).Scan(&sum.Docs); err != nil {
		return corpus.Summary{}, storeErr(err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM doc_tokens`).Scan(&sum.Tokens); err != nil {
		return corpus.Summary{}, storeErr(err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM doc_spans`).Scan(&sum.Entities); err != nil {
		return corpus.Summary{}, storeErr(err)
	}
	return sum, nil
}

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", internalerr.ErrPersistence, err)
}

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Snapshot stores raw catalog documents in a SQLite file so a known-good
// catalog can be served without the document store. It is also a Source.
type Snapshot struct {
	Path string
}

func (s Snapshot) String() string { return sqliteScheme + s.Path }

func (s Snapshot) open(ctx context.Context) (*sql.DB, error) {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrateSnapshot(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSnapshot(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS catalog_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalog_items (
			pos INTEGER PRIMARY KEY,
			json TEXT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the stored document.
func (s Snapshot) Save(ctx context.Context, doc Document) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Replace-all: a catalog load is never partially updated.
	for _, t := range []string{"catalog_meta", "catalog_items"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	metaRaw, err := json.Marshal(doc.Meta)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO catalog_meta(k, v) VALUES(?, ?)`, "meta", string(metaRaw)); err != nil {
		return err
	}
	saved := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `INSERT INTO catalog_meta(k, v) VALUES(?, ?)`, "saved_at", saved); err != nil {
		return err
	}
	for i, it := range doc.Items {
		raw, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode item %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO catalog_items(pos, json) VALUES(?, ?)`, i, string(raw)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Fetch loads the stored document in its original item order.
func (s Snapshot) Fetch(ctx context.Context) (Document, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return Document{}, err
	}
	db, err := s.open(ctx)
	if err != nil {
		return Document{}, err
	}
	defer db.Close()

	var doc Document
	var metaRaw string
	err = db.QueryRowContext(ctx, `SELECT v FROM catalog_meta WHERE k = ?`, "meta").Scan(&metaRaw)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return Document{}, err
	default:
		if err := json.Unmarshal([]byte(metaRaw), &doc.Meta); err != nil {
			return Document{}, fmt.Errorf("decode meta: %w", err)
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT json FROM catalog_items ORDER BY pos`)
	if err != nil {
		return Document{}, err
	}
	defer rows.Close()

	doc.Items = []any{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return Document{}, err
		}
		var it any
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			return Document{}, fmt.Errorf("decode item: %w", err)
		}
		doc.Items = append(doc.Items, it)
	}
	return doc, rows.Err()
}

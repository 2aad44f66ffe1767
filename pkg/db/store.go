package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RedSnail/PanACoTA/pkg/pangenome"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS genomes (
	genome_id TEXT PRIMARY KEY,
	position  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS families (
	family_id  TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	nb_members INTEGER NOT NULL,
	sum_quanti INTEGER NOT NULL,
	sum_quali  INTEGER NOT NULL,
	nb_0       INTEGER NOT NULL,
	nb_mono    INTEGER NOT NULL,
	nb_multi   INTEGER NOT NULL,
	nb_genomes INTEGER NOT NULL,
	max_multi  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS family_members (
	family_id TEXT NOT NULL REFERENCES families(family_id),
	genome_id TEXT NOT NULL REFERENCES genomes(genome_id),
	gene_id   TEXT NOT NULL,
	position  INTEGER NOT NULL,
	PRIMARY KEY (family_id, gene_id)
);
CREATE INDEX IF NOT EXISTS family_members_genome ON family_members(genome_id);
`

// Open opens (and creates when needed) the sqlite pangenome store at path.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema in %s: %w", path, err)
	}
	return db, nil
}

// Save replaces the stored pangenome with m and its grouped members, in one
// transaction.
func Save(ctx context.Context, db *sql.DB, m *pangenome.Matrix, grouped pangenome.FamsByStrain) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"family_members", "families", "genomes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	genomeStm, err := tx.PrepareContext(ctx, `INSERT INTO genomes (genome_id, position) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer genomeStm.Close()
	for i, g := range m.Genomes {
		if _, err := genomeStm.ExecContext(ctx, g, i); err != nil {
			return fmt.Errorf("insert genome %s: %w", g, err)
		}
	}

	famStm, err := tx.PrepareContext(ctx, `
		INSERT INTO families (family_id, position, nb_members, sum_quanti, sum_quali,
			nb_0, nb_mono, nb_multi, nb_genomes, max_multi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer famStm.Close()

	memberStm, err := tx.PrepareContext(ctx,
		`INSERT INTO family_members (family_id, genome_id, gene_id, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer memberStm.Close()

	for i, row := range m.Rows {
		s := row.Summary
		if _, err := famStm.ExecContext(ctx, row.Family, i,
			s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7]); err != nil {
			return fmt.Errorf("insert family %s: %w", row.Family, err)
		}
		pos := 0
		for _, g := range m.Genomes {
			for _, gene := range grouped[row.Family][g] {
				if _, err := memberStm.ExecContext(ctx, row.Family, g, gene, pos); err != nil {
					return fmt.Errorf("insert member %s of family %s: %w", gene, row.Family, err)
				}
				pos++
			}
		}
	}

	return tx.Commit()
}

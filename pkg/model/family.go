package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrFamilyNotFound = errors.New("family not found")

const summaryColumns = `f.family_id, f.nb_members, f.sum_quanti, f.sum_quali,
	f.nb_0, f.nb_mono, f.nb_multi, f.nb_genomes, f.max_multi`

func scanSummary(row interface{ Scan(...any) error }) (*FamilySummary, error) {
	var s FamilySummary
	err := row.Scan(&s.FamilyID, &s.NbMembers, &s.SumQuanti, &s.SumQuali,
		&s.Nb0, &s.NbMono, &s.NbMulti, &s.NbGenomes, &s.MaxMulti)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetFamily returns one family with its members grouped by genome.
func GetFamily(ctx context.Context, db *sql.DB, family_id string) (*Family, error) {
	s, err := scanSummary(db.QueryRowContext(ctx,
		`SELECT `+summaryColumns+` FROM families f WHERE f.family_id = ?`, family_id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrFamilyNotFound, family_id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT fm.genome_id, fm.gene_id
		FROM family_members fm
		WHERE fm.family_id = ?
		ORDER BY fm.position`, family_id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fam := &Family{Summary: *s, Genomes: make(map[string][]string)}
	for rows.Next() {
		var genome, gene string
		if err := rows.Scan(&genome, &gene); err != nil {
			return nil, fmt.Errorf("scan member of family %s: %w", family_id, err)
		}
		fam.Genomes[genome] = append(fam.Genomes[genome], gene)
	}
	return fam, rows.Err()
}

// GetFamilyIDByGene returns the family holding gene_id.
func GetFamilyIDByGene(ctx context.Context, db *sql.DB, gene_id string) (string, error) {
	var id string
	err := db.QueryRowContext(ctx,
		`SELECT family_id FROM family_members WHERE gene_id = ?`, gene_id).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: no family holds %s", ErrFamilyNotFound, gene_id)
	}
	return id, err
}

func familyFilter(q FamilyQuery) (string, []any) {
	where := " WHERE 1 = 1"
	var args []any
	if q.CoreOnly {
		where += " AND f.nb_0 = 0"
	}
	if q.Genome_ID != "" {
		where += " AND EXISTS (SELECT 1 FROM family_members fm WHERE fm.family_id = f.family_id AND fm.genome_id = ?)"
		args = append(args, q.Genome_ID)
	}
	return where, args
}

// ListFamilies returns one page of family summaries in pangenome order.
func ListFamilies(ctx context.Context, db *sql.DB, q FamilyQuery) ([]*FamilySummary, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page_Size < 1 {
		q.Page_Size = 30
	}
	where, args := familyFilter(q)
	args = append(args, q.Page_Size, (q.Page-1)*q.Page_Size)

	stm, err := db.PrepareContext(ctx,
		`SELECT `+summaryColumns+` FROM families f`+where+` ORDER BY f.position LIMIT ? OFFSET ?`)
	if err != nil {
		return nil, err
	}
	defer stm.Close()

	rows, err := stm.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*FamilySummary, 0, q.Page_Size)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// CountFamilies counts the families matching q, ignoring paging.
func CountFamilies(ctx context.Context, db *sql.DB, q FamilyQuery) (int, error) {
	where, args := familyFilter(q)
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM families f`+where, args...).Scan(&n)
	return n, err
}

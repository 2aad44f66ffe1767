package model

import (
	"context"
	"database/sql"
)

// Genomes in matrix column order.
func GetGenomes(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT genome_id FROM genomes ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		results = append(results, id)
	}
	return results, rows.Err()
}

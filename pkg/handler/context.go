package handler

// DI for all handlers.

import (
	"database/sql"

	ggdb "github.com/RedSnail/PanACoTA/pkg/db"
)

type DBContext struct {
	DB          *sql.DB
	Sequence_DB *ggdb.SequenceDB
}

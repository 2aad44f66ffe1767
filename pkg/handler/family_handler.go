package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/RedSnail/PanACoTA/logger"
	"github.com/RedSnail/PanACoTA/pkg/model"
	"go.uber.org/zap"
)

const (
	defaultPageSize   = 100
	defaultPageNumber = 1
)

type FamiliesPayload struct {
	Families  []*model.FamilySummary `json:"families"`
	Total     int                    `json:"total"`
	TotalPage int                    `json:"pageNumber"`
}

type FamiliesResponse struct {
	Success bool            `json:"success"`
	Payload FamiliesPayload `json:"payload"`
}

func parsePositiveIntFallback(v string, fallback int) int {
	num, err := strconv.Atoi(v)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

// GET /api/v1/family/{family_id}
func (dbctx *DBContext) FamilyHandler(w http.ResponseWriter, r *http.Request) {
	family_id := r.PathValue("family_id")
	if family_id == "" {
		dbctx.FamilyByGeneHandler(w, r)
		return
	}

	fam, err := model.GetFamily(r.Context(), dbctx.DB, family_id)
	if errors.Is(err, model.ErrFamilyNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		logger.Error("Error getting family", zap.String("family_id", family_id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, fam)
}

// GET /api/v1/family/?gene_id=...
func (dbctx *DBContext) FamilyByGeneHandler(w http.ResponseWriter, r *http.Request) {
	gene := r.URL.Query().Get("gene_id")
	logger.Debug("Searching family for", zap.String("gene", gene))

	family_id, err := model.GetFamilyIDByGene(r.Context(), dbctx.DB, gene)
	if errors.Is(err, model.ErrFamilyNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/api/v1/family/"+url.PathEscape(family_id), http.StatusFound)
}

// GET /api/v1/families?page=&page_size=&core=&genome_id=
func (dbctx *DBContext) FamiliesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	core, _ := strconv.ParseBool(q.Get("core"))
	query := model.FamilyQuery{
		Page:      parsePositiveIntFallback(q.Get("page"), defaultPageNumber),
		Page_Size: parsePositiveIntFallback(q.Get("page_size"), defaultPageSize),
		CoreOnly:  core,
		Genome_ID: q.Get("genome_id"),
	}

	fams, err := model.ListFamilies(r.Context(), dbctx.DB, query)
	if err != nil {
		logger.Error("Error listing families", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	total, err := model.CountFamilies(r.Context(), dbctx.DB, query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, FamiliesResponse{
		Success: true,
		Payload: FamiliesPayload{
			Families:  fams,
			Total:     total,
			TotalPage: (total + query.Page_Size - 1) / query.Page_Size,
		},
	})
}

// GET /api/v1/genomes
func (dbctx *DBContext) GenomesHandler(w http.ResponseWriter, r *http.Request) {
	genomes, err := model.GetGenomes(r.Context(), dbctx.DB)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if genomes == nil {
		genomes = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"genomes": genomes})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/RedSnail/PanACoTA/logger"
	"github.com/RedSnail/PanACoTA/pkg/model"
	"github.com/RedSnail/PanACoTA/pkg/render"
	"go.uber.org/zap"
)

// Main page, the summary table of all families
func (dbctx *DBContext) MainPage(w http.ResponseWriter, r *http.Request) {
	query := model.FamilyQuery{
		Page:      parsePositiveIntFallback(r.URL.Query().Get("page"), defaultPageNumber),
		Page_Size: parsePositiveIntFallback(r.URL.Query().Get("page_size"), defaultPageSize),
	}

	rows, err := model.ListFamilies(r.Context(), dbctx.DB, query)
	if err != nil {
		logger.Error("Error listing families", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	total, err := model.CountFamilies(r.Context(), dbctx.DB, query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	totalPage := (total + query.Page_Size - 1) / query.Page_Size
	if totalPage == 0 {
		totalPage = 1
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderFamiliesPage(w, rows, query.Page, totalPage); err != nil {
		logger.Error("Error rendering families", zap.Error(err))
	}
}

func (dbctx *DBContext) FamilyPage(w http.ResponseWriter, r *http.Request) {
	family_id := r.PathValue("family_id")

	fam, err := model.GetFamily(r.Context(), dbctx.DB, family_id)
	if errors.Is(err, model.ErrFamilyNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	genomes, err := model.GetGenomes(r.Context(), dbctx.DB)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderFamilyPage(w, fam, genomes); err != nil {
		logger.Error("Error rendering family", zap.String("family_id", family_id), zap.Error(err))
	}
}

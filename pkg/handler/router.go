package handler

import (
	"net/http"
)

func NewRouter(dbctx *DBContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Main routes
	mux.HandleFunc("GET /{$}", dbctx.MainPage)
	mux.HandleFunc("GET /family/{family_id}", dbctx.FamilyPage)

	// API routes
	mux.HandleFunc("GET /api/v1/health", HealthCheck)
	mux.HandleFunc("GET /api/v1/genomes", dbctx.GenomesHandler)
	mux.HandleFunc("GET /api/v1/families", dbctx.FamiliesHandler)
	mux.HandleFunc("GET /api/v1/family/{family_id}", dbctx.FamilyHandler)
	mux.HandleFunc("GET /api/v1/family/", dbctx.FamilyByGeneHandler)

	// Get sequences
	mux.HandleFunc("GET /sequence/by-gene", dbctx.GetGeneSequenceHandler)
	mux.HandleFunc("GET /sequence/by-family", dbctx.GetSequenceByFamilyIDHandler)

	return mux
}

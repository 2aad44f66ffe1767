package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	ggdb "github.com/RedSnail/PanACoTA/pkg/db"
	"github.com/RedSnail/PanACoTA/pkg/model"
)

// GET /sequence/by-gene?gene_id=&is_prot=
func (dbctx *DBContext) GetGeneSequenceHandler(w http.ResponseWriter, r *http.Request) {
	if dbctx.Sequence_DB == nil {
		http.Error(w, "No sequence directory configured", http.StatusServiceUnavailable)
		return
	}

	is_prot, err := strconv.ParseBool(r.URL.Query().Get("is_prot"))
	if err != nil {
		http.Error(w, "is_prot need to be bool-like string", http.StatusBadRequest)
		return
	}

	req := ggdb.GeneRequest{GeneID: r.URL.Query().Get("gene_id"), IsProt: is_prot}
	seq, err := dbctx.Sequence_DB.GetGeneSequence(req)
	if errors.Is(err, ggdb.ErrSequenceNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Write(seq)
}

// GET /sequence/by-family?family_id=&is_prot=
func (dbctx *DBContext) GetSequenceByFamilyIDHandler(w http.ResponseWriter, r *http.Request) {
	if dbctx.Sequence_DB == nil {
		http.Error(w, "No sequence directory configured", http.StatusServiceUnavailable)
		return
	}

	family_id := r.URL.Query().Get("family_id")
	is_prot, err := strconv.ParseBool(r.URL.Query().Get("is_prot"))
	if err != nil {
		http.Error(w, "is_prot need to be bool-like string", http.StatusBadRequest)
		return
	}

	fam, err := model.GetFamily(r.Context(), dbctx.DB, family_id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	reqs := make([]ggdb.GeneRequest, 0, fam.Summary.NbMembers)
	genomes, err := model.GetGenomes(r.Context(), dbctx.DB)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	for _, genome := range genomes {
		for _, gene := range fam.Genomes[genome] {
			reqs = append(reqs, ggdb.GeneRequest{GeneID: gene, IsProt: is_prot})
		}
	}

	seqs, err := dbctx.Sequence_DB.GetMultipleGene(reqs, is_prot)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("family %s: %w", family_id, err))
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Write(seqs)
}

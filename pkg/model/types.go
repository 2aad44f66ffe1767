package model

// Summary columns of a family, as written in the summary file.
type FamilySummary struct {
	FamilyID  string `json:"family_id"`
	NbMembers int    `json:"nb_members"`
	SumQuanti int    `json:"sum_quanti"`
	SumQuali  int    `json:"sum_quali"`
	Nb0       int    `json:"nb_0"`
	NbMono    int    `json:"nb_mono"`
	NbMulti   int    `json:"nb_multi"`
	NbGenomes int    `json:"sum_0_mono_multi"`
	MaxMulti  int    `json:"max_multi"`
}

func (s FamilySummary) Core() bool {
	return s.Nb0 == 0 && s.NbGenomes > 0
}

type Family struct {
	Summary FamilySummary `json:"summary"`
	// genome id -> genes of the family in that genome
	Genomes map[string][]string `json:"genomes"`
}

// FamilyQuery selects a page of families.
type FamilyQuery struct {
	Page      int
	Page_Size int
	CoreOnly  bool
	// when set, only families with a gene in this genome
	Genome_ID string
}

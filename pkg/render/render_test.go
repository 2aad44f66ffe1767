package render

import (
	"bytes"
	"testing"

	"github.com/RedSnail/PanACoTA/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateByCopyNumber(t *testing.T) {
	assert.Equal(t, "#CCCCCC", calculateByCopyNumber(0))
	assert.Equal(t, "#FFFFB2", calculateByCopyNumber(1))
	assert.Equal(t, "#BD0026", calculateByCopyNumber(5))
	assert.Equal(t, "#800000", calculateByCopyNumber(100))
}

func TestRenderFamilyPage(t *testing.T) {
	fam := &model.Family{
		Summary: model.FamilySummary{FamilyID: "1", NbMembers: 3, SumQuanti: 3, SumQuali: 2, Nb0: 1, NbMono: 1, NbMulti: 1, NbGenomes: 3, MaxMulti: 2},
		Genomes: map[string][]string{
			"GEN4.1111.00001": {"GEN4.1111.00001.b0001_00001"},
			"GENO.1216.00002": {"GENO.1216.00002.b0001_00001", "GENO.1216.00002.i0001_00002"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderFamilyPage(&buf, fam, []string{"GEN4.1111.00001", "GENO.0817.00001", "GENO.1216.00002"}))

	out := buf.String()
	assert.Contains(t, out, "<title>Family 1</title>")
	assert.Contains(t, out, "present in 2 of 3 genomes.")
	assert.NotContains(t, out, "(core)")
	assert.Contains(t, out, `bgcolor="#FECC5C"`)
	assert.Contains(t, out, `bgcolor="#CCCCCC"`)
	assert.Contains(t, out, "GENO.1216.00002.i0001_00002")
}

func TestRenderFamiliesPage(t *testing.T) {
	var buf bytes.Buffer
	rows := []*model.FamilySummary{{FamilyID: "9", NbMembers: 1, SumQuanti: 1, SumQuali: 1, Nb0: 2, NbMono: 1, NbGenomes: 3, MaxMulti: 1}}
	require.NoError(t, RenderFamiliesPage(&buf, rows, 2, 2))

	out := buf.String()
	assert.Contains(t, out, `<a href="/family/9">9</a>`)
	assert.Contains(t, out, `<a href="?page=1">`)
	assert.Contains(t, out, "<span>next &gt;&gt;</span>")
}

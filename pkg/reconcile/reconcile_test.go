package reconcile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RedSnail/PanACoTA/pkg/fasta"
	"github.com/RedSnail/PanACoTA/pkg/lstinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genome = "ESCO.1216.00005"

// lst rows: genes 1 and 2, a CRISPR, gene 3, a second CRISPR, gene 4
var table = strings.Join([]string{
	"1\t300\tD\tCDS\tESCO.1216.00005.b0001_00001\tyiaD\t| putative lipoprotein YiaD | 6.3.2.- | similar to AA sequence:UniProtKB:P37665",
	"350\t800\tC\tCDS\tESCO.1216.00005.i0001_00002\tNA\t| hypothetical protein | NA | NA",
	"900\t1100\tD\trepeat_region\tESCO.1216.00005.i0001_CRISPR1\tcrispr\t| crispr-array | NA | NA",
	"1200\t1500\tD\tCDS\tESCO.1216.00005.b0001_00003\tNA\t| hypothetical protein | NA | NA",
	"10\t60\tD\trepeat_region\tESCO.1216.00005.b0002_CRISPR2\tcrispr\t| crispr-array | NA | NA",
	"100\t400\tC\tCDS\tESCO.1216.00005.b0002_00004\tabc\t| some product | NA | NA",
}, "\n") + "\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProteinsOk(t *testing.T) {
	dir := t.TempDir()
	lst := writeFile(t, dir, "g.lst", table)
	faa := writeFile(t, dir, "g.faa",
		">JGIKIPIJ_00001 putative lipoprotein\nMKKL\nLLA\n"+
			">JGIKIPIJ_00002 hypothetical protein\nMSTT\n"+
			">JGIKIPIJ_00004 some product\nMAAA\n")
	prt := filepath.Join(dir, "g.prt")

	require.NoError(t, Proteins(lst, faa, prt))

	got, err := os.ReadFile(prt)
	require.NoError(t, err)
	want := ">ESCO.1216.00005.b0001_00001 300 yiaD | putative lipoprotein YiaD | 6.3.2.- | similar to AA sequence:UniProtKB:P37665\n" +
		"MKKL\nLLA\n" +
		">ESCO.1216.00005.i0001_00002 451 NA | hypothetical protein | NA | NA\n" +
		"MSTT\n" +
		">ESCO.1216.00005.b0002_00004 301 abc | some product | NA | NA\n" +
		"MAAA\n"
	assert.Equal(t, want, string(got))
}

func TestProteinsIdempotent(t *testing.T) {
	dir := t.TempDir()
	lst := writeFile(t, dir, "g.lst", table)
	faa := writeFile(t, dir, "g.faa", ">P_00001\nMK\n>P_00003\nMT\n")
	prt := filepath.Join(dir, "g.prt")

	require.NoError(t, Proteins(lst, faa, prt))
	first, err := os.ReadFile(prt)
	require.NoError(t, err)

	require.NoError(t, Proteins(lst, faa, prt))
	second, err := os.ReadFile(prt)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProteinsErrors(t *testing.T) {
	tests := []struct {
		name string
		faa  string
		kind Kind
		msg  func(faa, lst string) string
	}{
		{
			name: "header without separator",
			faa:  ">JGIKIPIJ00008\nMKK\n",
			kind: MalformedHeader,
			msg: func(faa, lst string) string {
				return "Unknown header format >JGIKIPIJ00008 in " + faa +
					". Error: missing '_' separator in \"JGIKIPIJ00008\""
			},
		},
		{
			name: "header number with letter",
			faa:  ">JGIKIPIJ_00001\nMKK\n>JGIKIPIJ_d0008\nMKK\n",
			kind: MalformedHeader,
			msg: func(faa, lst string) string {
				return "Unknown header format >JGIKIPIJ_d0008 in " + faa +
					". Error: strconv.Atoi: parsing \"d0008\": invalid syntax"
			},
		},
		{
			name: "protein missing from table",
			faa:  ">JGIKIPIJ_00001\nMKK\n>sup-prot_00012\nMKK\n",
			kind: UnmatchedIdentifier,
			msg: func(faa, lst string) string {
				return "Missing info for protein >sup-prot_00012 in " + lst +
					". If it is actually present in the lst file, check that proteins are ordered by " +
					"increasing number in both lst and faa files."
			},
		},
		{
			name: "wrong order",
			faa:  ">JGIKIPIJ_00003\nMKK\n>appears_after_13_00002\nMKK\n",
			kind: UnmatchedIdentifier,
			msg: func(faa, lst string) string {
				return "Missing info for protein >appears_after_13_00002 in " + lst +
					". If it is actually present in the lst file, check that proteins are ordered by " +
					"increasing number in both lst and faa files."
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			lst := writeFile(t, dir, "g.lst", table)
			faa := writeFile(t, dir, "g.faa", tt.faa)
			prt := filepath.Join(dir, "g.prt")

			err := Proteins(lst, faa, prt)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.msg(faa, lst), err.Error())
			assert.NoFileExists(t, prt)
		})
	}
}

func TestProteinsMalformedTable(t *testing.T) {
	dir := t.TempDir()
	lst := writeFile(t, dir, "g.lst", "1\t300\tD\tCDS\tG.b0001_00001\n")
	faa := writeFile(t, dir, "g.faa", ">P_00001\nMK\n")
	prt := filepath.Join(dir, "g.prt")

	err := Proteins(lst, faa, prt)
	assert.Equal(t, MalformedTableField, KindOf(err))
	assert.Contains(t, err.Error(), "Unknown gene format in "+lst+": 1\t300\tD\tCDS\tG.b0001_00001")
	assert.NoFileExists(t, prt)
}

func TestGenesWithCRISPRs(t *testing.T) {
	dir := t.TempDir()
	lst := writeFile(t, dir, "g.lst", table)
	ffn := writeFile(t, dir, "g.ffn",
		">JGIKIPIJ_00001\nATG\n"+
			">JGIKIPIJ_00002\nATGC\n"+
			">ESCO.1216.00005_1 CRISPR\nACGTACGT\n"+
			">JGIKIPIJ_00003\nTTT\n"+
			">ESCO.1216.00005_2 CRISPR\nGGGG\n"+
			">JGIKIPIJ_00004\nAAA\n")
	gen := filepath.Join(dir, "g.gen")

	require.NoError(t, Genes(lst, ffn, gen, genome))

	got, err := os.ReadFile(gen)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, ">ESCO.1216.00005.i0001_CRISPR1 201 crispr | crispr-array | NA | NA", lines[4])
	assert.Equal(t, "ACGTACGT", lines[5])
	assert.Equal(t, ">ESCO.1216.00005.b0002_CRISPR2 51 crispr | crispr-array | NA | NA", lines[8])
	assert.Equal(t, ">ESCO.1216.00005.b0002_00004 301 abc | some product | NA | NA", lines[10])
}

func TestGenesErrors(t *testing.T) {
	tests := []struct {
		name  string
		table string
		ffn   string
		kind  Kind
		text  string
	}{
		{
			name:  "crispr header on a gene row",
			table: table,
			ffn:   ">ESCO.1216.00005_1\nACGT\n",
			kind:  TypeMismatch,
			text:  ">ESCO.1216.00005_1 should be a CRISPR but is not (type CDS)",
		},
		{
			name: "crispr numbers out of step",
			table: "10\t60\tD\trepeat_region\tESCO.1216.00005.b0002_CRISPR2\tcrispr\t| crispr-array | NA | NA\n" +
				"100\t400\tC\tCDS\tESCO.1216.00005.b0002_00004\tabc\t| some product | NA | NA\n",
			ffn:  ">ESCO.1216.00005_1\nACGT\n",
			kind: CounterMismatch,
			text: "expected CRISPR1, got CRISPR2",
		},
		{
			name:  "gene header on a crispr row",
			table: "900\t1100\tD\trepeat_region\tESCO.1216.00005.i0001_CRISPR1\tcrispr\t| crispr-array | NA | NA\n",
			ffn:   ">JGIKIPIJ_00001\nATG\n",
			kind:  MalformedTableField,
			text:  "Unknown gene format in ",
		},
		{
			name:  "lockstep number differs",
			table: table,
			ffn:   ">JGIKIPIJ_00002\nATG\n",
			kind:  UnmatchedIdentifier,
			text:  "Missing info for gene >JGIKIPIJ_00002",
		},
		{
			name:  "table exhausted",
			table: "1\t300\tD\tCDS\tESCO.1216.00005.b0001_00001\tyiaD\t| p | NA | NA\n",
			ffn:   ">JGIKIPIJ_00001\nATG\n>JGIKIPIJ_00002\nATG\n",
			kind:  UnmatchedIdentifier,
			text:  "check that genes are ordered by increasing number in both lst and ffn files.",
		},
		{
			name:  "unknown header",
			table: table,
			ffn:   ">OTHER-1\nATG\n",
			kind:  MalformedHeader,
			text:  "Unknown header format >OTHER-1 in ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			lst := writeFile(t, dir, "g.lst", tt.table)
			ffn := writeFile(t, dir, "g.ffn", tt.ffn)
			gen := filepath.Join(dir, "g.gen")

			err := Genes(lst, ffn, gen, genome)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err), err.Error())
			assert.Contains(t, err.Error(), tt.text)
			assert.NoFileExists(t, gen)
		})
	}
}

func TestGenesSimilarGenomeName(t *testing.T) {
	// "ESCO.1216.000051" must not be taken for a CRISPR of ESCO.1216.00005
	m := &GeneMatcher{genome: genome}
	assert.False(t, m.isCRISPR(&fasta.Record{Header: ">ESCO.1216.000051_3"}))
	assert.True(t, m.isCRISPR(&fasta.Record{Header: ">ESCO.1216.00005_3"}))
	assert.True(t, m.isCRISPR(&fasta.Record{Header: ">ESCO.1216.00005 CRISPR"}))
}

func TestMergeInMemory(t *testing.T) {
	seqs := fasta.NewReader(strings.NewReader(">P_00002\nMK\n"))
	m := NewProteinMatcher(lstinfo.NewReader(strings.NewReader(table)), "table", "seqs")

	var out bytes.Buffer
	require.NoError(t, Merge(seqs, m, &out))
	assert.Equal(t, ">ESCO.1216.00005.i0001_00002 451 NA | hypothetical protein | NA | NA\nMK\n", out.String())
}

func TestEmptySequenceFile(t *testing.T) {
	dir := t.TempDir()
	lst := writeFile(t, dir, "g.lst", table)
	empty := writeFile(t, dir, "g.faa", "")

	prt := filepath.Join(dir, "g.prt")
	require.NoError(t, Proteins(lst, empty, prt))
	got, err := os.ReadFile(prt)
	require.NoError(t, err)
	assert.Empty(t, got)

	gen := filepath.Join(dir, "g.gen")
	require.NoError(t, Genes(lst, empty, gen, genome))
	got, err = os.ReadFile(gen)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMissingInputs(t *testing.T) {
	dir := t.TempDir()
	prt := filepath.Join(dir, "g.prt")
	err := Proteins(filepath.Join(dir, "none.lst"), filepath.Join(dir, "none.faa"), prt)
	assert.Error(t, err)
	assert.Equal(t, Kind(0), KindOf(err))
	assert.NoFileExists(t, prt)
}

package pangenome

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadListing(t *testing.T) {
	in := "1 GEN4.1111.00001.b0001_00001 GENO.0817.00001.b0001_00002\n\n" +
		"2 GEN4.1111.00001.i0001_00003\n"
	fams, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, Families{
		{"1", []string{"GEN4.1111.00001.b0001_00001", "GENO.0817.00001.b0001_00002"}},
		{"2", []string{"GEN4.1111.00001.i0001_00003"}},
	}, fams)
}

func TestReadListingDuplicate(t *testing.T) {
	_, err := Read(strings.NewReader("1 a.b_1\n1 a.b_2\n"))
	assert.ErrorIs(t, err, ErrDuplicateFamily)
}

func TestWriteListing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, fixtureFamilies()[:2]))
	assert.Equal(t,
		"1 GEN4.1111.00001.b0001_00001 GENO.0817.00001.b0001_00002 GENO.1216.00002.b0001_00001 GENO.1216.00002.i0001_00002\n"+
			"10 GEN4.1111.00001.i0001_00004 GENO.0817.00001.i0002_00004 GENO.1216.00002.i0001_00005\n",
		buf.String())
}

func TestListingFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PanGenome.lst.gz")
	require.NoError(t, WriteFile(path, fixtureFamilies()))
	fams, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fixtureFamilies(), fams)
}

func TestReadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PanGenome.lst")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	fams, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, fams)
}

func TestParseProteinOrtho(t *testing.T) {
	in := "# Species\tGenes\tAlg.-Conn.\tGEN4.1111.00001.faa\tGENO.0817.00001.faa\n" +
		"2\t3\t0.5\tGEN4.1111.00001.b0001_00001,GEN4.1111.00001.i0001_00002\tGENO.0817.00001.b0001_00002\n" +
		"1\t1\t1\t*\tGENO.0817.00001.i0002_00008\n"
	fams, err := ParseProteinOrtho(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, Families{
		{"1", []string{"GEN4.1111.00001.b0001_00001", "GEN4.1111.00001.i0001_00002", "GENO.0817.00001.b0001_00002"}},
		{"2", []string{"GENO.0817.00001.i0002_00008"}},
	}, fams)
}

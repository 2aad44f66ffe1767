// Render HTML for browsing a stored pangenome

package render

import (
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/RedSnail/PanACoTA/pkg/model"
)

// calculateByCopyNumber maps copy number to warm colors.
// 0 -> grey (absent), 1..5 -> distinct YlOrRd-like buckets,
// >5 -> gradient from deep red to dark red up to a cap.
func calculateByCopyNumber(val int) string {
	value := float64(val)
	if value <= 0 {
		return "#CCCCCC"
	}

	switch val {
	case 1:
		return "#FFFFB2" // light yellow
	case 2:
		return "#FECC5C" // yellow-orange
	case 3:
		return "#FD8D3C" // orange
	case 4:
		return "#F03B20" // red-orange
	case 5:
		return "#BD0026" // red
	}

	// Gradient for >5 copies
	const capVal = 30.0
	if value > capVal {
		value = capVal
	}
	sr, sg, sb := 189.0, 0.0, 38.0 // #BD0026
	er, eg, eb := 128.0, 0.0, 0.0  // #800000
	t := (value - 5.0) / (capVal - 5.0)
	r := int(math.Round(lerp(sr, er, t)))
	g := int(math.Round(lerp(sg, eg, t)))
	b := int(math.Round(lerp(sb, eb, t)))
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Cell is one genome column of a family row.
type Cell struct {
	Genome string
	Genes  []string
	Color  string
}

// arrangeGenome lays the family members out in genome order.
func arrangeGenome(fam *model.Family, genomeIDs []string) []Cell {
	out := make([]Cell, 0, len(genomeIDs))
	for _, id := range genomeIDs {
		genes := fam.Genomes[id]
		out = append(out, Cell{Genome: id, Genes: genes, Color: calculateByCopyNumber(len(genes))})
	}
	return out
}

var (
	familyPageTemplate   *template.Template
	familiesPageTemplate *template.Template
)

func init() {
	familyTmpl := `<!DOCTYPE html>
<html>
<head>
	<title>Family {{ .Family.Summary.FamilyID }}</title>
</head>
<body>
	<h1>Family {{ .Family.Summary.FamilyID }}</h1>
	{{ template "summary" .Family.Summary }}
	<table border="1">
	<tr><th>Genome ID</th><th>Copies</th><th>Genes</th></tr>
	{{ range .Cells }}
		<tr>
			<td>{{ .Genome }}</td>
			<td bgcolor="{{ .Color }}">{{ len .Genes }}</td>
			<td>
			{{ range .Genes }}
				<div>{{ . }}
					[<a href="/sequence/by-gene?gene_id={{ . }}&is_prot=false" target="_blank">N</a>]
					[<a href="/sequence/by-gene?gene_id={{ . }}&is_prot=true" target="_blank">P</a>]
				</div>
			{{ end }}
			</td>
		</tr>
	{{ end }}
	</table>
	<h2>Resources</h2>
	<ul>
		<li>[<a href="/sequence/by-family?family_id={{ .Family.Summary.FamilyID }}&is_prot=false" target="_blank">FNA</a>] All nucleotide sequences in FASTA format</li>
		<li>[<a href="/sequence/by-family?family_id={{ .Family.Summary.FamilyID }}&is_prot=true" target="_blank">FAA</a>] All protein sequences in FASTA format</li>
	</ul>
</body>
</html>`

	summaryTmpl := `{{ define "summary" }}
	<div>
		<p>{{ .NbMembers }} genes, present in {{ .SumQuali }} of {{ .NbGenomes }} genomes{{ if .Core }} (core){{ end }}.</p>
		<p>Absent: {{ .Nb0 }}. Mono-copy: {{ .NbMono }}. Multi-copy: {{ .NbMulti }}, up to {{ .MaxMulti }} copies.</p>
	</div>
{{ end }}`

	familiesTmpl := `<!DOCTYPE html>
<html>
<head>
	<title>Pangenome families</title>
</head>
<body>
	<h1>Pangenome families</h1>
	<table border="1">
	<tr>
		<th>num_fam</th><th>nb_members</th><th>sum_quanti</th><th>sum_quali</th>
		<th>nb_0</th><th>nb_mono</th><th>nb_multi</th><th>sum_0-mono-multi</th><th>max_multi</th>
	</tr>
	{{ range .Rows }}
		<tr>
			<td><a href="/family/{{ .FamilyID }}">{{ .FamilyID }}</a></td>
			<td>{{ .NbMembers }}</td><td>{{ .SumQuanti }}</td><td>{{ .SumQuali }}</td>
			<td>{{ .Nb0 }}</td><td>{{ .NbMono }}</td><td>{{ .NbMulti }}</td>
			<td>{{ .NbGenomes }}</td><td>{{ .MaxMulti }}</td>
		</tr>
	{{ end }}
	</table>
	<div class="pagination">
		{{ if gt .CurrentPage 1 }}<a href="?page={{ sub .CurrentPage 1 }}">&lt;&lt; prev</a>{{ else }}<span>&lt;&lt; prev</span>{{ end }}
		<span>{{ .CurrentPage }} / {{ .TotalPage }}</span>
		{{ if lt .CurrentPage .TotalPage }}<a href="?page={{ add .CurrentPage 1 }}">next &gt;&gt;</a>{{ else }}<span>next &gt;&gt;</span>{{ end }}
	</div>
</body>
</html>`

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	familyPageTemplate = template.Must(template.New("family").Parse(familyTmpl))
	familyPageTemplate = template.Must(familyPageTemplate.Parse(summaryTmpl))
	familiesPageTemplate = template.Must(template.New("families").Funcs(funcMap).Parse(familiesTmpl))
}

// RenderFamilyPage renders one family, one row per genome in genomeIDs order.
func RenderFamilyPage(w io.Writer, fam *model.Family, genomeIDs []string) error {
	return familyPageTemplate.Execute(w, struct {
		Family *model.Family
		Cells  []Cell
	}{fam, arrangeGenome(fam, genomeIDs)})
}

// RenderFamiliesPage renders a page of the summary table.
func RenderFamiliesPage(w io.Writer, rows []*model.FamilySummary, currentPage, totalPage int) error {
	return familiesPageTemplate.Execute(w, struct {
		Rows        []*model.FamilySummary
		CurrentPage int
		TotalPage   int
	}{rows, currentPage, totalPage})
}

package report

import (
	"os"
	"strings"
	"testing"

	"salesprobe/domain/dataset"
	"salesprobe/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.NewDataset("orders.csv")
	require.NoError(t, ds.AddColumn("Region", dataset.KindCategorical, []dataset.Value{
		dataset.Str("West"), dataset.Str("East"), dataset.Missing(),
	}))
	require.NoError(t, ds.AddColumn("Sales", dataset.KindNumeric, []dataset.Value{
		dataset.Num(10), dataset.Num(30), dataset.Num(20),
	}))
	return ds
}

func TestBuildAndMarkdown(t *testing.T) {
	ds := reportDataset(t)
	r, err := Build("", ds, []ChartLink{{Title: "Profit by Region", Path: "charts/profit_by_region.png"}}, "1 column imputed")
	require.NoError(t, err)

	assert.Equal(t, "Sales Data Report", r.Title)
	assert.Equal(t, ds.ID, r.DatasetID)
	assert.False(t, r.ID.String() == "")

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Sales Data Report\n"))
	assert.Contains(t, md, "Shape: 3 rows x 2 columns")
	assert.Contains(t, md, "- 1 column imputed")
	assert.Contains(t, md, "## Missing Values")
	assert.Contains(t, md, "| Region |")
	assert.Contains(t, md, "![Profit by Region](charts/profit_by_region.png)")
	assert.Contains(t, md, "| statistic |")
	assert.Contains(t, md, "## Distribution Shape")
	assert.Contains(t, md, "Normality p")
}

func TestHTMLRendersTablesAndImages(t *testing.T) {
	r, err := Build("Q1 Sales", reportDataset(t), []ChartLink{{Title: "Trend", Path: "trend.png"}})
	require.NoError(t, err)

	page := string(r.HTML())
	assert.Contains(t, page, "<title>Q1 Sales</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, `<img src="trend.png" alt="Trend"`)
}

func TestBuildRejectsEmptyDataset(t *testing.T) {
	_, err := Build("", dataset.NewDataset("empty"), nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestSaveWritesBothFiles(t *testing.T) {
	r, err := Build("", reportDataset(t), nil)
	require.NoError(t, err)

	mdPath, htmlPath, err := r.Save(t.TempDir())
	require.NoError(t, err)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Equal(t, r.Markdown()[:20], string(md[:20]))
	assert.FileExists(t, htmlPath)
}

func TestToHTML(t *testing.T) {
	out := string(ToHTML("t", []byte("## Heading\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")))
	assert.Contains(t, out, `<h2 id="heading">Heading</h2>`)
	assert.Contains(t, out, "<td>1</td>")
}

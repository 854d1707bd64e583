// Package report assembles an exploration report as markdown and renders it to HTML.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"salesprobe/domain/core"
	"salesprobe/domain/dataset"
	"salesprobe/internal/errors"
	"salesprobe/internal/profiling"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/olekukonko/tablewriter"
)

// ChartLink points the report at a rendered chart image
type ChartLink struct {
	Title string
	Path  string
}

// Report is the data behind one generated report
type Report struct {
	ID          core.ReportID
	Title       string
	DatasetID   core.DatasetID
	Source      string
	GeneratedAt time.Time
	Exploration *profiling.Exploration
	Missing     []profiling.MissingCount
	Notes       []string
	Charts      []ChartLink
}

// Build explores ds and gathers everything a report needs
func Build(title string, ds *dataset.Dataset, charts []ChartLink, notes ...string) (*Report, error) {
	exp, err := profiling.Explore(ds)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build report")
	}
	if title == "" {
		title = "Sales Data Report"
	}
	return &Report{
		ID:          core.NewReportID(),
		Title:       title,
		DatasetID:   ds.ID,
		Source:      ds.Source,
		GeneratedAt: time.Now().UTC(),
		Exploration: exp,
		Missing:     profiling.MissingSummary(ds),
		Notes:       notes,
		Charts:      charts,
	}, nil
}

// Markdown renders the report as markdown
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "- Report: `%s`\n", core.ID(r.ID).Short())
	fmt.Fprintf(&b, "- Dataset: `%s`\n", r.DatasetID)
	if r.Source != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", r.Source)
	}
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Shape: %d rows x %d columns\n\n", r.Exploration.Rows, r.Exploration.Columns)

	if len(r.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, n := range r.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Columns\n\n")
	info := make([][]string, len(r.Exploration.ColumnInfo))
	for i, c := range r.Exploration.ColumnInfo {
		info[i] = []string{c.Name, strconv.Itoa(c.NonMissing), string(c.Kind)}
	}
	b.WriteString(markdownTable([]string{"Column", "Non-Null Count", "Kind"}, info))

	b.WriteString("\n## Missing Values\n\n")
	missing := make([][]string, len(r.Missing))
	for i, m := range r.Missing {
		missing[i] = []string{m.Column, strconv.Itoa(m.Missing)}
	}
	b.WriteString(markdownTable([]string{"Column", "Missing"}, missing))

	b.WriteString("\n## Summary Statistics\n\n")
	header, rows := profiling.DescribeTable(r.Exploration.Describe)
	header[0] = "statistic"
	b.WriteString(markdownTable(header, rows))

	if len(r.Exploration.Distributions) > 0 {
		b.WriteString("\n## Distribution Shape\n\n")
		header, rows := profiling.DistributionTable(r.Exploration.Distributions)
		b.WriteString(markdownTable(header, rows))
	}

	if len(r.Charts) > 0 {
		b.WriteString("\n## Charts\n")
		for _, c := range r.Charts {
			fmt.Fprintf(&b, "\n### %s\n\n![%s](%s)\n", c.Title, c.Title, filepath.ToSlash(c.Path))
		}
	}
	return b.String()
}

// HTML renders the report as a complete HTML page
func (r *Report) HTML() []byte {
	return ToHTML(r.Title, []byte(r.Markdown()))
}

// ToHTML converts markdown to a standalone HTML page
func ToHTML(title string, md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return markdown.Render(doc, renderer)
}

// Save writes report.md and report.html into dir
func (r *Report) Save(dir string) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", errors.Wrapf(err, "create report directory %s", dir)
	}
	mdPath := filepath.Join(dir, "report.md")
	if err := os.WriteFile(mdPath, []byte(r.Markdown()), 0o644); err != nil {
		return "", "", errors.Wrapf(err, "write %s", mdPath)
	}
	htmlPath := filepath.Join(dir, "report.html")
	if err := os.WriteFile(htmlPath, r.HTML(), 0o644); err != nil {
		return "", "", errors.Wrapf(err, "write %s", htmlPath)
	}
	return mdPath, htmlPath, nil
}

// markdownTable renders a pipe table
func markdownTable(header []string, rows [][]string) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(rows)
	table.Render()
	return buf.String()
}

// Package report renders scan results.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pingcap/errors"

	"github.com/gubarz/sloclass/internal/scan"
	"github.com/gubarz/sloclass/internal/source"
)

// OutputMode represents how a scan is reported
type OutputMode string

const (
	OutputText OutputMode = "text"
	OutputCSV  OutputMode = "csv"
	OutputJSON OutputMode = "json"
)

// ParseOutputMode validates a mode name.
func ParseOutputMode(s string) (OutputMode, error) {
	switch m := OutputMode(strings.ToLower(s)); m {
	case OutputText, OutputCSV, OutputJSON:
		return m, nil
	case "":
		return OutputText, nil
	}
	return "", errors.Errorf("unknown output mode %q (supported: text, csv, json)", s)
}

// Styles colors the text report.
type Styles struct {
	Path   lipgloss.Style
	Header lipgloss.Style
	Failed lipgloss.Style
	Dim    lipgloss.Style
}

// Reporter writes scan results in one output mode
type Reporter struct {
	w      io.Writer
	mode   OutputMode
	styles Styles
}

// NewReporter creates a reporter writing to w. Colors are only emitted
// when w is a terminal.
func NewReporter(w io.Writer, mode OutputMode) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:    w,
		mode: mode,
		styles: Styles{
			Path:   r.NewStyle(),
			Header: r.NewStyle().Bold(true),
			Failed: r.NewStyle().Foreground(lipgloss.Color("1")),
			Dim:    r.NewStyle().Foreground(lipgloss.Color("8")),
		},
	}
}

// WithStyles sets the path and dim colors of the text report.
func (r *Reporter) WithStyles(path, dim lipgloss.Color) *Reporter {
	r.styles.Path = r.styles.Path.Foreground(path)
	r.styles.Dim = r.styles.Dim.Foreground(dim)
	return r
}

// Write reports idx
func (r *Reporter) Write(idx *scan.Index) error {
	switch r.mode {
	case OutputCSV:
		return r.writeCSV(idx)
	case OutputJSON:
		return r.writeJSON(idx)
	default:
		return r.writeText(idx)
	}
}

func (r *Reporter) writeCSV(idx *scan.Index) error {
	var b strings.Builder
	for _, f := range idx.Files {
		if f.Err != nil {
			fmt.Fprintf(&b, "%s, %s, %s\n", f.Path, f.Status(), oneLine(f.Err))
			continue
		}
		fmt.Fprintf(&b, "%s, %d, %d\n", f.Path, f.Summary.SLOC, f.Summary.Physical)
	}
	fmt.Fprintf(&b, "total, %d, %d\n", idx.SLOC, idx.Physical)
	_, err := io.WriteString(r.w, b.String())
	return errors.Trace(err)
}

type fileRecord struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Status   string `json:"status"`
	SLOC     int    `json:"sloc"`
	Physical int    `json:"physical"`
	Error    string `json:"error,omitempty"`
}

type jsonReport struct {
	Files    []fileRecord `json:"files"`
	SLOC     int          `json:"sloc"`
	Physical int          `json:"physical"`
	Failed   int          `json:"failed"`
}

func (r *Reporter) writeJSON(idx *scan.Index) error {
	out := jsonReport{
		Files:    make([]fileRecord, 0, len(idx.Files)),
		SLOC:     idx.SLOC,
		Physical: idx.Physical,
		Failed:   idx.Failed,
	}
	for _, f := range idx.Files {
		rec := fileRecord{
			Path:     f.Path,
			Language: string(f.Language),
			Status:   f.Status(),
			SLOC:     f.Summary.SLOC,
			Physical: f.Summary.Physical,
		}
		if f.Err != nil {
			rec.Error = f.Err.Error()
		}
		out.Files = append(out.Files, rec)
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return errors.Trace(enc.Encode(out))
}

func (r *Reporter) writeText(idx *scan.Index) error {
	pathWidth := len("total")
	for _, f := range idx.Files {
		pathWidth = max(pathWidth, lipgloss.Width(f.Path))
	}
	const numWidth = 9

	var b strings.Builder
	row := func(path, sloc, physical, note string, pathStyle lipgloss.Style) {
		b.WriteString(pathStyle.Render(pad(path, pathWidth)))
		b.WriteString("  ")
		b.WriteString(padLeft(sloc, numWidth))
		b.WriteString("  ")
		b.WriteString(padLeft(physical, numWidth))
		if note != "" {
			b.WriteString("  ")
			b.WriteString(note)
		}
		b.WriteString("\n")
	}

	b.WriteString(r.styles.Header.Render(pad("path", pathWidth) + "  " +
		padLeft("sloc", numWidth) + "  " + padLeft("physical", numWidth)))
	b.WriteString("\n")
	for _, f := range idx.Files {
		if f.Err != nil {
			note := r.styles.Failed.Render(f.Status()) + " " + r.styles.Dim.Render(oneLine(f.Err))
			row(f.Path, "-", "-", note, r.styles.Path)
			continue
		}
		row(f.Path, strconv.Itoa(f.Summary.SLOC), strconv.Itoa(f.Summary.Physical), "", r.styles.Path)
	}
	note := ""
	if idx.Failed > 0 {
		note = r.styles.Failed.Render(fmt.Sprintf("%d failed", idx.Failed))
	}
	row("total", strconv.Itoa(idx.SLOC), strconv.Itoa(idx.Physical), note, r.styles.Header)

	_, err := io.WriteString(r.w, b.String())
	return errors.Trace(err)
}

// WriteLines prints every logical line of path followed by the totals, one
// record per line.
func WriteLines(w io.Writer, path string, lines []source.LogicalLine, sum source.Summary) error {
	var b strings.Builder
	for _, ll := range lines {
		fmt.Fprintf(&b, "%s [%d, %d) (%d): %s %s\n", path, ll.Start, ll.End, ll.SLOC, ll.Text, ll.Category)
	}
	fmt.Fprintf(&b, "%s, %d, %d\n", path, sum.SLOC, sum.Physical)
	_, err := io.WriteString(w, b.String())
	return errors.Trace(err)
}

func oneLine(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", " ")
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

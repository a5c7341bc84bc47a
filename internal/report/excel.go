package report

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"volMonitor/internal/model"
)

const (
	SheetName   = "Swaption Vol Table"
	numberFmt   = "#,##0.00;(#,##0.00)"
	moverFill   = "808080"
	headerFill  = "D3D3D3"
	sectionFill = "E8E8E8"
	richFill    = "F8CBAD"
	cheapFill   = "C6EFCE"
	headerRow   = 4
	firstRow    = 6
)

var levelHeaders = []string{"Current", "1d Chg", "1w Chg", "1m Chg", "20d High", "20d Low"}

// Valuation classifies a z-score against the rich and cheap thresholds.
type Valuation string

const (
	Fair  Valuation = ""
	Rich  Valuation = "rich"
	Cheap Valuation = "cheap"
)

// Options controls Excel rendering.
type Options struct {
	RichThreshold  float64
	CheapThreshold float64
}

func DefaultOptions() Options {
	return Options{RichThreshold: 1.3, CheapThreshold: -1.3}
}

// Classify returns Rich or Cheap when z crosses a threshold.
func (o Options) Classify(z float64) Valuation {
	switch {
	case math.IsNaN(z):
		return Fair
	case z >= o.RichThreshold:
		return Rich
	case z <= o.CheapThreshold:
		return Cheap
	default:
		return Fair
	}
}

// ExcelReport writes the table to an xlsx workbook.
type ExcelReport struct {
	path string
	opts Options
}

func NewExcelReport(path string, opts Options) *ExcelReport {
	return &ExcelReport{path: path, opts: opts}
}

func (r *ExcelReport) PutTable(_ context.Context, asOf time.Time, rows []model.MetricRow) error {
	f, _, err := render(asOf, rows, r.opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := f.SaveAs(r.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

type styles struct {
	title   int
	section int
	header  int
	label   int
	number  int
	mover   int
	rich    int
	cheap   int
	note    int
}

func newStyles(f *excelize.File) (styles, error) {
	numFmt := numberFmt
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	right := &excelize.Alignment{Horizontal: "right", Vertical: "center"}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}

	var s styles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}, Alignment: center}},
		{&s.section, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Fill: fill(sectionFill), Alignment: center, Border: border}},
		{&s.header, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Fill: fill(headerFill), Alignment: center, Border: border}},
		{&s.label, &excelize.Style{Alignment: center, Border: border}},
		{&s.number, &excelize.Style{CustomNumFmt: &numFmt, Alignment: right, Border: border}},
		{&s.mover, &excelize.Style{CustomNumFmt: &numFmt, Alignment: right, Border: border, Fill: fill(moverFill), Font: &excelize.Font{Bold: true, Color: "FFFFFF"}}},
		{&s.rich, &excelize.Style{CustomNumFmt: &numFmt, Alignment: right, Border: border, Fill: fill(richFill)}},
		{&s.cheap, &excelize.Style{CustomNumFmt: &numFmt, Alignment: right, Border: border, Fill: fill(cheapFill)}},
		{&s.note, &excelize.Style{Font: &excelize.Font{Size: 9}, Alignment: &excelize.Alignment{Horizontal: "left"}}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return styles{}, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

// render lays the table out as: title, as-of line, section headers, column
// headers, one line per row, then notes.
func render(asOf time.Time, rows []model.MetricRow, opts Options) (*excelize.File, styles, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, styles{}, fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, styles{}, err
	}

	w := &sheetWriter{f: f, sheet: SheetName}
	windows := realizedWindows(rows)
	lastCol := 1 + 2*len(levelHeaders) + len(windows) + 1

	w.merged(1, 1, lastCol, "Vol Monitor - Swaption Vol Table", st.title)
	w.merged(2, 1, lastCol, "As of "+asOf.Format("2006-01-02"), 0)

	w.mergedRows(headerRow, 1, 2, "Term/Tenor", st.header)
	col := 2
	w.section(col, len(levelHeaders), "Implied Basis Point Volatility (Annualized)", levelHeaders, st)
	col += len(levelHeaders)
	w.section(col, len(levelHeaders), "Implied Basis Point Volatility (Daily)", levelHeaders, st)
	col += len(levelHeaders)
	realizedHeaders := make([]string, len(windows))
	for i, win := range windows {
		realizedHeaders[i] = fmt.Sprintf("%dd", win)
	}
	if len(windows) > 0 {
		w.section(col, len(windows), "Realized Basis Point Volatility", realizedHeaders, st)
		col += len(windows)
	}
	w.mergedRows(headerRow, col, 2, "Z-Score", st.header)

	for i, row := range rows {
		r := firstRow + i
		w.set(r, 1, row.Label, st.label)

		col := 2
		for _, levels := range []model.ImpliedLevels{row.Annualized, row.Daily} {
			for j, v := range levelValues(levels) {
				style := st.number
				if moverAt(row.Movers, j) {
					style = st.mover
				}
				w.number(r, col+j, v, style)
			}
			col += len(levelHeaders)
		}
		for j, win := range windows {
			w.number(r, col+j, row.RealizedFor(win), st.number)
		}
		col += len(windows)

		zStyle := st.number
		switch opts.Classify(row.ZScore) {
		case Rich:
			zStyle = st.rich
		case Cheap:
			zStyle = st.cheap
		}
		w.number(r, col, row.ZScore, zStyle)
	}

	notesRow := firstRow + len(rows) + 1
	w.merged(notesRow, 1, lastCol, "Largest movers (1-day largest movers over 2 weeks; 1-week largest movers over 1 month; 1-month largest movers over 6 months)", st.note)
	w.merged(notesRow+1, 1, lastCol, fmt.Sprintf("Z-Score of current implied vol: rich >= %.1f, cheap <= %.1f", opts.RichThreshold, opts.CheapThreshold), st.note)
	w.merged(notesRow+2, 1, lastCol, "Source: VolCube ATM normal vols, SOFR swap rates", st.note)

	if w.err == nil {
		endCol, _ := excelize.ColumnNumberToName(lastCol)
		w.err = f.SetColWidth(SheetName, "A", endCol, 12)
	}
	if w.err != nil {
		f.Close()
		return nil, styles{}, fmt.Errorf("render table: %w", w.err)
	}
	return f, st, nil
}

func realizedWindows(rows []model.MetricRow) []int {
	if len(rows) == 0 {
		return nil
	}
	out := make([]int, 0, len(rows[0].Realized))
	for _, rv := range rows[0].Realized {
		out = append(out, rv.Window)
	}
	return out
}

func levelValues(l model.ImpliedLevels) []float64 {
	return []float64{l.Current, l.Change1D, l.Change1W, l.Change1M, l.High, l.Low}
}

// moverAt reports whether the level column at idx is a flagged change.
func moverAt(m model.MoverFlags, idx int) bool {
	switch idx {
	case 1:
		return m.OneDay
	case 2:
		return m.OneWeek
	case 3:
		return m.OneMonth
	}
	return false
}

// sheetWriter keeps the first error so layout code reads straight through.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) ref(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil && w.err == nil {
		w.err = err
	}
	return name
}

func (w *sheetWriter) style(from, to string, style int) {
	if w.err != nil || style == 0 {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, from, to, style)
}

func (w *sheetWriter) set(row, col int, value any, style int) {
	cell := w.ref(row, col)
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, value)
	w.style(cell, cell, style)
}

// number leaves undefined values blank but still styled.
func (w *sheetWriter) number(row, col int, v float64, style int) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		cell := w.ref(row, col)
		w.style(cell, cell, style)
		return
	}
	w.set(row, col, v, style)
}

func (w *sheetWriter) merged(row, fromCol, toCol int, value string, style int) {
	from, to := w.ref(row, fromCol), w.ref(row, toCol)
	if w.err != nil {
		return
	}
	w.err = w.f.MergeCell(w.sheet, from, to)
	w.set(row, fromCol, value, 0)
	w.style(from, to, style)
}

func (w *sheetWriter) mergedRows(row, col, span int, value string, style int) {
	from, to := w.ref(row, col), w.ref(row+span-1, col)
	if w.err != nil {
		return
	}
	w.err = w.f.MergeCell(w.sheet, from, to)
	w.set(row, col, value, 0)
	w.style(from, to, style)
}

func (w *sheetWriter) section(col, width int, title string, headers []string, st styles) {
	from, to := w.ref(headerRow, col), w.ref(headerRow, col+width-1)
	if w.err != nil {
		return
	}
	w.err = w.f.MergeCell(w.sheet, from, to)
	w.set(headerRow, col, title, 0)
	w.style(from, to, st.section)
	for i, h := range headers {
		w.set(headerRow+1, col+i, h, st.header)
	}
}

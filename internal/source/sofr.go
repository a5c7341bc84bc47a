package source

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"volMonitor/internal/model"
)

var sofrFileRe = regexp.MustCompile(`(?i)^sofr\s*(\d+)\s*y(?:r|ear)?s?\.xlsx$`)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// SOFRLoader reads SOFR swap rate workbooks named like "SOFR 10yr.xlsx",
// one workbook per tenor.
type SOFRLoader struct {
	Dir         string
	Logger      *zap.Logger
	Concurrency int
}

type sofrFile struct {
	path  string
	tenor int
}

// Load reads every tenor workbook in Dir. A workbook that fails to parse is
// logged and skipped; Load fails only when no workbook yields data.
func (l *SOFRLoader) Load(ctx context.Context) ([]model.RateObservation, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := l.files()
	if err != nil {
		return nil, err
	}

	results := make([][]model.RateObservation, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			obs, err := ReadSOFRWorkbook(file.path, file.tenor)
			if err != nil {
				logger.Warn("skip sofr workbook",
					zap.String("path", file.path),
					zap.Int("tenor", file.tenor),
					zap.Error(err),
				)
				return nil
			}
			results[i] = obs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.RateObservation
	loaded := 0
	for _, obs := range results {
		if len(obs) > 0 {
			loaded++
		}
		out = append(out, obs...)
	}
	if loaded == 0 {
		return nil, fmt.Errorf("no sofr data loaded from %s", l.Dir)
	}
	logger.Info("sofr loaded", zap.Int("tenors", loaded), zap.Int("observations", len(out)))
	return out, nil
}

func (l *SOFRLoader) files() ([]sofrFile, error) {
	paths, err := filepath.Glob(filepath.Join(l.Dir, "*.xlsx"))
	if err != nil {
		return nil, fmt.Errorf("glob sofr files: %w", err)
	}
	var files []sofrFile
	for _, path := range paths {
		m := sofrFileRe.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			continue
		}
		tenor, err := strconv.Atoi(m[1])
		if err != nil || tenor <= 0 {
			continue
		}
		files = append(files, sofrFile{path: path, tenor: tenor})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].tenor < files[j].tenor })
	return files, nil
}

// ReadSOFRWorkbook parses the first sheet of a swap rate workbook. The header
// row picks the date column (contains "date") and the rate column (contains
// rate, close, price or value), falling back to the first two columns. Rows
// whose date cell reads like a header, or whose date or rate does not parse,
// are skipped.
func ReadSOFRWorkbook(path string, tenor int) ([]model.RateObservation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("workbook %s has no data rows", filepath.Base(path))
	}

	dateCol, rateCol, err := sniffColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("workbook %s: %w", filepath.Base(path), err)
	}

	var out []model.RateObservation
	for _, row := range rows[1:] {
		dateCell, rateCell := cell(row, dateCol), cell(row, rateCol)
		if dateCell == "" || isHeaderCell(dateCell) {
			continue
		}
		date, ok := parseDateCell(dateCell)
		if !ok {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(rateCell), 64)
		if err != nil {
			continue
		}
		out = append(out, model.RateObservation{Date: date, Tenor: tenor, Rate: rate})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid rows in %s", filepath.Base(path))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func sniffColumns(header []string) (int, int, error) {
	dateCol, rateCol := -1, -1
	for i, name := range header {
		name = strings.ToLower(name)
		switch {
		case strings.Contains(name, "date"):
			dateCol = i
		case strings.Contains(name, "rate"),
			strings.Contains(name, "close"),
			strings.Contains(name, "price"),
			strings.Contains(name, "value"):
			rateCol = i
		}
	}
	if dateCol >= 0 && rateCol >= 0 {
		return dateCol, rateCol, nil
	}
	if len(header) >= 2 {
		return 0, 1, nil
	}
	return 0, 0, fmt.Errorf("cannot find date and rate columns in %v", header)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isHeaderCell(value string) bool {
	lower := strings.ToLower(value)
	return strings.Contains(lower, "date") ||
		strings.Contains(lower, "start") ||
		strings.Contains(lower, "end")
}

// parseDateCell accepts Excel serial dates and common text layouts.
func parseDateCell(value string) (time.Time, bool) {
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		tm, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return model.DateOf(tm), true
	}
	for _, layout := range dateLayouts {
		if tm, err := time.Parse(layout, value); err == nil {
			return model.DateOf(tm), true
		}
	}
	return time.Time{}, false
}

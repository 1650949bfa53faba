package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"entity-graph/backend/pkg/errors"
	"entity-graph/backend/pkg/logger"
)

type options struct {
	sheet string
}

// Option configures Load
type Option func(*options)

// WithSheet selects a worksheet by name. Without it the first sheet is read.
// Ignored for CSV sources.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// Load reads a tabular source in full and returns its rows. The format is
// picked from the file extension: .xlsx/.xlsm/.xltx workbooks or .csv text.
// Every failure is reported as *errors.LoadError.
func Load(path string, opts ...Option) (*Store, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewLoadError(path, errors.LoadReasonMissing, err)
		}
		return nil, errors.NewLoadError(path, errors.LoadReasonUnreadable, err)
	}

	var (
		tbl *table
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm", ".xltx":
		tbl, err = readWorkbook(path, o.sheet)
	case ".csv":
		tbl, err = readCSV(path)
	default:
		return nil, errors.NewLoadError(path, errors.LoadReasonUnsupported, fmt.Errorf("extension %q", ext))
	}
	if err != nil {
		return nil, err
	}

	store, err := tbl.build(path)
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Dataset loaded",
		zap.String("path", path),
		zap.Int("records", store.Len()),
		zap.Strings("columns", store.Columns()),
	)
	return store, nil
}

// table is the raw cell grid of a source before records are built.
// text holds the displayed value of each cell, native the typed value used
// for passthrough columns.
type table struct {
	text   [][]string
	native func(row, col int) any
}

func (t *table) build(path string) (*Store, error) {
	headerRow := -1
	for i, row := range t.text {
		if !blankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, errors.NewLoadError(path, errors.LoadReasonNoTable, fmt.Errorf("no header row"))
	}

	width := 0
	for _, row := range t.text[headerRow:] {
		width = max(width, len(row))
	}
	headerCells := make([]string, width)
	copy(headerCells, t.text[headerRow])

	columns := headerNames(headerCells)
	for _, required := range RequiredColumns {
		found := false
		for _, col := range columns {
			if col == required {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.NewLoadError(path, errors.LoadReasonSchema, fmt.Errorf("column %q not found", required))
		}
	}

	records := make([]Record, 0, len(t.text)-headerRow-1)
	for i := headerRow + 1; i < len(t.text); i++ {
		row := t.text[i]
		if blankRow(row) {
			continue
		}

		rec := Record{columns: columns}
		for j, name := range columns {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			if isRequired(name) {
				rec.set(name, cell)
				continue
			}
			if cell == "" {
				rec.set(name, nil)
				continue
			}
			rec.set(name, t.native(i, j))
		}
		records = append(records, rec)
	}

	return newLoadedStore(path, columns, records), nil
}

func readWorkbook(path, sheet string) (*table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewLoadError(path, errors.LoadReasonUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewLoadError(path, errors.LoadReasonNoTable, fmt.Errorf("workbook has no sheets"))
	}
	if sheet == "" {
		sheet = sheets[0]
	} else {
		found := false
		for _, name := range sheets {
			if name == sheet {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.NewLoadError(path, errors.LoadReasonNoTable, fmt.Errorf("sheet %q not found", sheet))
		}
	}

	text, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewLoadError(path, errors.LoadReasonUnreadable, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewLoadError(path, errors.LoadReasonUnreadable, err)
	}

	// Cell types are resolved eagerly since f is closed on return.
	types := make(map[[2]int]excelize.CellType)
	for i, row := range text {
		for j, cell := range row {
			if cell == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			if ct, err := f.GetCellType(sheet, name); err == nil {
				types[[2]int{i, j}] = ct
			}
		}
	}

	native := func(i, j int) any {
		shown := text[i][j]
		rawValue := shown
		if i < len(raw) && j < len(raw[i]) {
			rawValue = raw[i][j]
		}
		switch types[[2]int{i, j}] {
		case excelize.CellTypeBool:
			return rawValue == "1" || strings.EqualFold(rawValue, "true")
		case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeFormula:
			// Keep the displayed text when a number format turns the value
			// into something that is no longer a number, e.g. a date.
			if _, err := strconv.ParseFloat(strings.ReplaceAll(shown, ",", ""), 64); err != nil {
				return shown
			}
			if n, err := strconv.ParseFloat(rawValue, 64); err == nil {
				return numberValue(n)
			}
		}
		return shown
	}

	return &table{text: text, native: native}, nil
}

func readCSV(path string) (*table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewLoadError(path, errors.LoadReasonUnreadable, err)
	}
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var text [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewLoadError(path, errors.LoadReasonNoTable, err)
		}
		text = append(text, row)
	}

	native := func(i, j int) any {
		return scalarValue(text[i][j])
	}
	return &table{text: text, native: native}, nil
}

// headerNames names blank headers "Unnamed: <index>" and suffixes repeats
// with the first free ".1", ".2", ... so every column has a distinct key.
// cells is padded to the widest row, so data past the header gets a name too.
func headerNames(cells []string) []string {
	names := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, cell := range cells {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// scalarValue types a text cell: integers, then floats, then booleans, else
// the text itself
func scalarValue(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch s {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	return s
}

func numberValue(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

package service

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"choir-attendance/internal/scoring"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// ExportService renders reports as xlsx workbooks, one sheet per table.
type ExportService struct{}

func NewExportService() *ExportService { return &ExportService{} }

func (s *ExportService) Filename(r scoring.Report) string { return r.Filename + ".xlsx" }

func (s *ExportService) Write(w io.Writer, r scoring.Report) error {
	f, err := s.Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (s *ExportService) Bytes(r scoring.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Write(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) Workbook(r scoring.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}

	tables := r.Tables
	if len(tables) == 0 {
		tables = []scoring.Table{{Title: "Report"}}
	}
	used := map[string]int{}
	for i, t := range tables {
		name := sheetName(t.Title, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("add sheet: %w", err)
		}
		if err := writeTable(f, name, r, t, bold); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeTable(f *excelize.File, sheet string, r scoring.Report, t scoring.Table, bold int) error {
	row := 1
	put := func(values []string, style int) error {
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("write row %d of %s: %w", row, sheet, err)
		}
		if style != 0 && len(values) > 0 {
			end, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(sheet, start, end, style); err != nil {
				return fmt.Errorf("style row %d of %s: %w", row, sheet, err)
			}
		}
		row++
		return nil
	}

	heading := []string{r.Title}
	if r.Subject != "" {
		heading = append(heading, r.Subject)
	}
	if r.Period != "" {
		heading = append(heading, r.Period)
	}
	if err := put(heading, bold); err != nil {
		return err
	}
	row++
	if len(t.Headers) > 0 {
		if err := put(t.Headers, bold); err != nil {
			return err
		}
	}
	for _, cells := range t.Rows {
		if err := put(cells, 0); err != nil {
			return err
		}
	}
	if n := len(t.Headers); n > 0 {
		last, _ := excelize.ColumnNumberToName(n)
		if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
			return fmt.Errorf("size columns of %s: %w", sheet, err)
		}
	}
	return nil
}

func sheetName(title string, used map[string]int) string {
	name := strings.TrimSpace(sheetNameReplacer.Replace(title))
	if name == "" {
		name = "Sheet"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	used[name]++
	if n := used[name]; n > 1 {
		suffix := fmt.Sprintf(" %d", n)
		if len(name)+len(suffix) > maxSheetName {
			name = name[:maxSheetName-len(suffix)]
		}
		name += suffix
	}
	return name
}

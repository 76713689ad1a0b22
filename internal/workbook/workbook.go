// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workbook accumulates extraction results into one XLSX file.
//
// The file is shared state across the whole batch: every write opens
// it, mutates, and saves before returning. Row append is monotonic --
// existing rows are never reordered or deleted, and sheet headers are
// written exactly once.
package workbook

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the output artifact.
const (
	SheetOverview    = "Framework Overview"
	SheetGovernance  = "Governance"
	SheetSummary     = "SPO Summary"
	SheetEligibility = "Eligibility+EU Tax"
	SheetSDG         = "SDG"
)

// UnknownID tags SPO rows that arrive before any framework row exists.
const UnknownID = "UNKNOWN"

var sheetHeaders = map[string][]string{
	SheetOverview: {
		"Framework ID", "Issuer", "Framework Name", "SPO Provider",
		"Alignment", "Year", "SPO Date", "Framework Source",
	},
	SheetGovernance: {
		"Framework ID", "Exclusion Criteria", "Impact Reporting", "External Verification",
	},
	SheetSummary: {
		"Framework ID", "Summary",
	},
	SheetEligibility: {
		"Framework ID", "Use of Proceeds", "Eligibility Criteria",
		"SPO Evaluation", "EU Taxonomy Alignment", "DNSH",
		"Minimum Safeguards", "EU Taxonomy and Economic Activities",
	},
	SheetSDG: {
		"Framework ID", "Use of Proceeds", "SDG",
	},
}

// sheetOrder fixes sheet creation order so fresh workbooks are stable.
var sheetOrder = []string{
	SheetOverview, SheetGovernance, SheetSummary, SheetEligibility, SheetSDG,
}

// Workbook is the spreadsheet accumulator. Identifier allocation reads
// the sheet itself, so a Workbook carries no state between calls.
type Workbook struct {
	path string
	log  *slog.Logger
}

// New returns an accumulator writing to path. The file is created on
// first write.
func New(path string, log *slog.Logger) *Workbook {
	if log == nil {
		log = slog.Default()
	}
	return &Workbook{path: path, log: log}
}

// WriteFramework appends one Framework Overview row and its Governance
// row under a freshly allocated identifier, which is returned for the
// pair's later SPO write. Missing fields become empty cells.
func (w *Workbook) WriteFramework(data map[string]any) (string, error) {
	start := time.Now()

	f, err := w.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	id, err := nextFrameworkID(f, SheetOverview)
	if err != nil {
		return "", err
	}

	if err := appendRow(f, SheetOverview, []any{
		id,
		field(data, "Issuer"),
		field(data, "Framework Name"),
		field(data, "SPO Provider"),
		field(data, "Alignment"),
		field(data, "Year"),
		field(data, "SPO Date"),
		field(data, "Framework Source"),
	}); err != nil {
		return "", err
	}

	if err := appendRow(f, SheetGovernance, []any{
		id,
		field(data, "Exclusion Criteria"),
		field(data, "Impact Reporting"),
		field(data, "External Verification"),
	}); err != nil {
		return "", err
	}

	if err := f.SaveAs(w.path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}

	w.log.Info("workbook.framework.ok",
		"framework_id", id,
		"path", w.path,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return id, nil
}

// WriteSPO attaches second party opinion data to the framework row
// identified by lastID: its SPO Provider and SPO Date cells are filled
// in place and a Summary row is appended under the same identifier.
//
// An empty lastID falls back to the sheet's last data row. When no
// framework row exists at all the Summary row is still written, tagged
// UnknownID, and a warning is logged; this is never an error.
func (w *Workbook) WriteSPO(data map[string]any, lastID string) (string, error) {
	f, err := w.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	row, id, err := findFrameworkRow(f, lastID)
	if err != nil {
		return "", err
	}

	if row > 0 {
		providerCell, _ := excelize.CoordinatesToCellName(4, row)
		dateCell, _ := excelize.CoordinatesToCellName(7, row)
		if err := f.SetCellValue(SheetOverview, providerCell, field(data, "SPO Provider")); err != nil {
			return "", fmt.Errorf("updating SPO Provider: %w", err)
		}
		if err := f.SetCellValue(SheetOverview, dateCell, field(data, "SPO Date")); err != nil {
			return "", fmt.Errorf("updating SPO Date: %w", err)
		}
	} else {
		id = UnknownID
		w.log.Warn("workbook.spo.orphaned", "path", w.path)
	}

	if err := appendRow(f, SheetSummary, []any{id, field(data, "Summary")}); err != nil {
		return "", err
	}

	if err := f.SaveAs(w.path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}

	w.log.Info("workbook.spo.ok", "framework_id", id, "path", w.path)
	return id, nil
}

// WriteTable flattens a table extraction result into the Eligibility
// and SDG sheets under one identifier from the table namespace, which
// is independent of the Overview namespace.
func (w *Workbook) WriteTable(data map[string]any) (string, error) {
	f, err := w.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	id, err := nextFrameworkID(f, SheetEligibility)
	if err != nil {
		return "", err
	}

	entries, _ := data["Use_of_Proceeds"].([]any)
	var eligRows, sdgRows int

	for _, entry := range entries {
		uop, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := field(uop, "Name")

		if err := appendRow(f, SheetSDG, []any{id, name, joinSDGs(uop["SDGs"])}); err != nil {
			return "", err
		}
		sdgRows++

		criteria, _ := uop["Eligibility_Criteria"].([]any)
		for _, c := range criteria {
			crit, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if err := appendRow(f, SheetEligibility, []any{
				id,
				name,
				field(crit, "Description"),
				field(crit, "SPO_Evaluation"),
				field(crit, "EU_Taxonomy_Alignment"),
				field(crit, "DNSH"),
				field(crit, "Minimum_Safeguards"),
				field(crit, "EU_Taxonomy_Economic_Activity"),
			}); err != nil {
				return "", err
			}
			eligRows++
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}

	w.log.Info("workbook.table.ok",
		"framework_id", id,
		"eligibility_rows", eligRows,
		"sdg_rows", sdgRows,
		"path", w.path,
	)
	return id, nil
}

// open loads the workbook, creating it with all sheets and headers when
// absent. For an existing file, missing sheets are added and headers
// are filled only where a sheet's first row is entirely empty.
func (w *Workbook) open() (*excelize.File, error) {
	var f *excelize.File

	if _, err := os.Stat(w.path); err == nil {
		f, err = excelize.OpenFile(w.path)
		if err != nil {
			return nil, fmt.Errorf("opening workbook %s: %w", w.path, err)
		}
	} else {
		f = excelize.NewFile()
	}

	for _, sheet := range sheetOrder {
		if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("creating sheet %s: %w", sheet, err)
			}
		}
		if err := ensureHeaders(f, sheet); err != nil {
			return nil, err
		}
	}

	// Drop excelize's default sheet on a fresh file.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("removing default sheet: %w", err)
		}
	}

	return f, nil
}

// ensureHeaders writes a sheet's header row only when the first row is
// entirely empty.
func ensureHeaders(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	if len(rows) > 0 {
		for _, cell := range rows[0] {
			if cell != "" {
				return nil
			}
		}
	}

	for i, h := range sheetHeaders[sheet] {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing header of %s: %w", sheet, err)
		}
	}
	return nil
}

// nextFrameworkID computes the next F### identifier from the last
// non-empty data row of the sheet. An empty sheet, or a last id that
// does not parse as F-prefixed, restarts at F001.
func nextFrameworkID(f *excelize.File, sheet string) (string, error) {
	lastID, _, err := lastDataRow(f, sheet)
	if err != nil {
		return "", err
	}
	if lastID == "" || !strings.HasPrefix(lastID, "F") {
		return "F001", nil
	}

	n, err := strconv.Atoi(lastID[1:])
	if err != nil {
		return "F001", nil
	}
	return fmt.Sprintf("F%03d", n+1), nil
}

// lastDataRow returns the first-column value and 1-based row number of
// the sheet's last non-empty data row. Row 0 means headers only.
func lastDataRow(f *excelize.File, sheet string) (string, int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", 0, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	for i := len(rows) - 1; i >= 1; i-- {
		for _, cell := range rows[i] {
			if cell != "" {
				first := ""
				if len(rows[i]) > 0 {
					first = rows[i][0]
				}
				return first, i + 1, nil
			}
		}
	}
	return "", 0, nil
}

// findFrameworkRow locates the Overview row for an SPO write: the row
// whose identifier matches lastID, or the last data row when lastID is
// empty. Row 0 means the sheet has no data rows.
func findFrameworkRow(f *excelize.File, lastID string) (int, string, error) {
	rows, err := f.GetRows(SheetOverview)
	if err != nil {
		return 0, "", fmt.Errorf("reading sheet %s: %w", SheetOverview, err)
	}

	if lastID != "" {
		for i := len(rows) - 1; i >= 1; i-- {
			if len(rows[i]) > 0 && rows[i][0] == lastID {
				return i + 1, lastID, nil
			}
		}
		return 0, "", nil
	}

	id, row, err := lastDataRow(f, SheetOverview)
	if err != nil {
		return 0, "", err
	}
	return row, id, nil
}

// appendRow writes values after the sheet's last non-empty row.
func appendRow(f *excelize.File, sheet string, values []any) error {
	_, last, err := lastDataRow(f, sheet)
	if err != nil {
		return err
	}
	if last == 0 {
		last = 1 // headers
	}

	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, last+1)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// field renders a result value as a cell string; absent keys become "".
func field(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// joinSDGs flattens an SDG tag list to one comma-separated cell.
func joinSDGs(v any) string {
	list, ok := v.([]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, fmt.Sprintf("%v", item))
	}
	return strings.Join(parts, ", ")
}

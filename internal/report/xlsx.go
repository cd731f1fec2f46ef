package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/analytics"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

const (
	recordsSheet = "Records"
	summarySheet = "Summary"
)

// ProjectWorkbook writes one row per record on the Records sheet and the
// aggregate statistics on the Summary sheet.
func ProjectWorkbook(w io.Writer, project *domain.Project, records []domain.FieldRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeRecords(f, records); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	if err := writeSummary(f, project, analytics.Aggregate(records)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func recordHeader() []any {
	header := []any{"ID", "Date", "Location", "Latitude", "Longitude"}
	for _, a := range (domain.BiophysicalAttributes{}).Fields() {
		header = append(header, analytics.HumanizeKey(a.Name))
	}
	for _, a := range (domain.PhaseImpacts{}).Fields() {
		header = append(header, analytics.HumanizeKey(a.Name))
	}
	return append(header, "Images")
}

func writeRecords(f *excelize.File, records []domain.FieldRecord) error {
	header := recordHeader()
	if err := f.SetSheetRow(recordsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"22C55E"}},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(recordsSheet, "A1", last, style)
	}

	for i, r := range records {
		row := []any{r.ID, time.UnixMilli(r.CreatedAt).UTC().Format("2006-01-02"), r.Location.Description, r.Location.Lat, r.Location.Lng}
		for _, a := range r.Biophysical.Fields() {
			row = append(row, a.Value)
		}
		impacts := domain.PhaseImpacts{}
		if r.Impacts != nil {
			impacts = *r.Impacts
		}
		for _, a := range impacts.Fields() {
			row = append(row, a.Value)
		}
		row = append(row, len(r.Images))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(recordsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.ID, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, project *domain.Project, stats analytics.Stats) error {
	rows := [][]any{
		{"Project", project.ProjectName},
		{"Company", project.CompanyName},
		{"Total Entries", stats.TotalEntries},
		{"Total Images", stats.TotalImages},
	}
	if e := stats.Elevation; e != nil {
		rows = append(rows,
			[]any{"Average Elevation (m)", e.Avg},
			[]any{"Minimum Elevation (m)", e.Min},
			[]any{"Maximum Elevation (m)", e.Max},
		)
	}
	section := func(title string, points []analytics.Point) {
		rows = append(rows, []any{}, []any{title, "Count"})
		for _, p := range points {
			rows = append(rows, []any{p.Name, p.Value})
		}
	}
	charts := analytics.BuildCharts(stats)
	section("Vegetation Type", charts.Vegetation)
	conservation := make([]analytics.Point, len(charts.Conservation))
	for i, c := range charts.Conservation {
		conservation[i] = analytics.Point{Name: c.Name, Value: c.Value}
	}
	section("Conservation Status", conservation)
	section("Impacts Recorded", charts.Impacts)
	section("Elevation Range", charts.ElevationRange)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

// Package report renders field data as PDF and XLSX documents.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/analytics"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

const (
	marginLeft  = 14.0
	tableWidth  = 182.0
	labelWidth  = 60.0
	lineHeight  = 5.0
	qrImageSize = 36.0
)

var brandGreen = [3]int{34, 197, 94}

// RecordReport is everything shown in a single record's PDF. Client, Project
// and Weather are optional.
type RecordReport struct {
	Client      *domain.Client
	Project     *domain.Project
	Record      domain.FieldRecord
	Weather     *domain.Weather
	GeneratedAt time.Time
}

// FileName is the download name for the report.
func (r RecordReport) FileName() string {
	company, project := "Unknown", "Unknown"
	if r.Client != nil && r.Client.CompanyName != "" {
		company = r.Client.CompanyName
	}
	if r.Project != nil && r.Project.ProjectName != "" {
		project = r.Project.ProjectName
	}
	return fmt.Sprintf("XAMU_Field_Report_%s_%s_%s.pdf", company, project, r.GeneratedAt.Format("2006-01-02"))
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// RecordPDF renders the report to w.
func RecordPDF(w io.Writer, r RecordReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, 20, marginLeft)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	p := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 5, fmt.Sprintf("Generated by XAMU Wetlands Field Data App - Page %d of {nb}", pdf.PageNo()), "", 0, "L", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.CellFormat(0, 10, "XAMU Wetlands Field Data Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 8, "Generated: "+r.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if c := r.Client; c != nil {
		p.table("Client Information", "Field", [][2]string{
			{"Company Name", orNA(c.CompanyName)},
			{"Registration Number", orNA(c.CompanyRegNum)},
			{"Company Type", orNA(c.CompanyType)},
			{"Contact Person", orNA(c.ContactPerson)},
			{"Email", orNA(c.ContactEmail)},
			{"Phone", orNA(c.ContactPhone)},
			{"Address", orNA(c.Address)},
		})
	}
	if pr := r.Project; pr != nil {
		client := "N/A"
		if r.Client != nil {
			client = orNA(r.Client.CompanyName)
		}
		p.table("Project Information", "Field", [][2]string{
			{"Project Name", orNA(pr.ProjectName)},
			{"Created Date", time.UnixMilli(pr.CreatedAt).UTC().Format("2006-01-02")},
			{"Client", client},
		})
	}

	rec := r.Record
	entry := [][2]string{
		{"Entry Date", rec.Created().UTC().Format("2006-01-02")},
		{"Location", orNA(rec.Location.Description)},
		{"Latitude", strconv.FormatFloat(rec.Location.Lat, 'f', -1, 64)},
		{"Longitude", strconv.FormatFloat(rec.Location.Lng, 'f', -1, 64)},
	}
	p.table("Field Data Entry", "Field", entry)
	if wx := r.Weather; wx != nil {
		p.table("Current Weather", "Field", [][2]string{
			{"Location", orNA(strings.TrimSuffix(wx.LocationName+", "+wx.Region, ", "))},
			{"Condition", orNA(wx.Condition)},
			{"Temperature", fmt.Sprintf("%.1f C", wx.TempC)},
			{"Wind", fmt.Sprintf("%.1f km/h", wx.WindKph)},
			{"Humidity", fmt.Sprintf("%d%%", wx.Humidity)},
		})
	}

	if err := p.locationQR(rec.Location); err != nil {
		return err
	}

	p.table("Biophysical Attributes", "Attribute", attributeRows(rec.Biophysical.Fields()))
	impacts := domain.PhaseImpacts{}
	if rec.Impacts != nil {
		impacts = *rec.Impacts
	}
	p.table("Phase Impacts", "Impact Type", attributeRows(impacts.Fields()))

	if len(rec.Images) > 0 {
		rows := make([][2]string, len(rec.Images))
		for i, img := range rec.Images {
			name := img.Name
			if name == "" {
				name = fmt.Sprintf("Image %d", i+1)
			}
			rows[i] = [2]string{name, img.URL}
		}
		p.table(fmt.Sprintf("Field Images (%d)", len(rec.Images)), "Name", rows)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func attributeRows(fields []domain.Attribute) [][2]string {
	rows := make([][2]string, len(fields))
	for i, f := range fields {
		rows[i] = [2]string{analytics.HumanizeKey(f.Name), orNA(f.Value)}
	}
	return rows
}

func (p *pdfWriter) heading(title string) {
	p.pdf.SetFont("Helvetica", "B", 14)
	p.pdf.SetTextColor(brandGreen[0], brandGreen[1], brandGreen[2])
	p.pdf.CellFormat(0, 8, p.tr(title), "", 1, "L", false, 0, "")
}

// table draws a two column grid, wrapping long values and breaking pages
// between rows.
func (p *pdfWriter) table(title, firstColumn string, rows [][2]string) {
	pdf := p.pdf
	p.heading(title)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(labelWidth, 7, firstColumn, "1", 0, "L", true, 0, "")
	pdf.CellFormat(tableWidth-labelWidth, 7, "Value", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range rows {
		lines := pdf.SplitText(p.tr(row[1]), tableWidth-labelWidth-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		height := float64(len(lines)) * lineHeight
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
		}
		x, y := pdf.GetXY()
		pdf.CellFormat(labelWidth, height, p.tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.Rect(x+labelWidth, y, tableWidth-labelWidth, height, "D")
		for i, line := range lines {
			pdf.SetXY(x+labelWidth+1, y+float64(i)*lineHeight)
			pdf.CellFormat(tableWidth-labelWidth-2, lineHeight, line, "", 0, "L", false, 0, "")
		}
		pdf.SetXY(x, y+height)
	}
	pdf.Ln(6)
}

// locationQR places a scannable geo: link for records with coordinates.
func (p *pdfWriter) locationQR(loc domain.GeoLocation) error {
	if !loc.HasCoordinates() {
		return nil
	}
	png, err := LocationQR(loc, 256)
	if err != nil {
		return err
	}
	pdf := p.pdf
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("location-qr", opts, bytes.NewReader(png))

	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+qrImageSize+8 > pageHeight-20 {
		pdf.AddPage()
	}
	y := pdf.GetY()
	pdf.ImageOptions("location-qr", marginLeft, y, qrImageSize, qrImageSize, false, opts, 0, "")
	pdf.SetXY(marginLeft+qrImageSize+4, y+qrImageSize/2-3)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Scan to open "+GeoURI(loc), "", 1, "L", false, 0, "")
	pdf.SetXY(marginLeft, y+qrImageSize+6)
	return nil
}

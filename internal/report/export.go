package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"vwds/internal/domain"
	"vwds/internal/models"
)

// Format is an export file type.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatPDF:
		return Format(s), nil
	}
	return "", domain.Invalid("format must be csv or pdf")
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Filename() string {
	return "tickets-report." + string(f)
}

var csvHeader = []string{
	"ID", "Date", "License Plate", "Vehicle Type", "Route", "Officer",
	"Ticket Type", "Fine Amount", "Status", "Violation Details",
}

func ticketRow(t models.Ticket) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.DateTime.UTC().Format(time.RFC3339),
		t.LicensePlate,
		t.VehicleType,
		t.RouteName,
		t.OfficerName,
		string(t.TicketType),
		strconv.FormatFloat(t.FineAmount, 'f', 2, 64),
		string(t.Status),
		t.ViolationDetails,
	}
}

// Write renders tickets to w in format f.
func Write(w io.Writer, f Format, tickets []models.Ticket, generated time.Time) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, tickets)
	case FormatPDF:
		return WritePDF(w, tickets, generated)
	}
	return fmt.Errorf("unknown report format %q", f)
}

func WriteCSV(w io.Writer, tickets []models.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tickets {
		if err := cw.Write(ticketRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// pdf column widths in mm, matching csvHeader minus the details column.
var pdfWidths = []float64{12, 36, 28, 24, 40, 28, 28, 22, 20}

// WritePDF renders a landscape A4 table. Violation details are left out
// to keep one ticket per line.
func WritePDF(w io.Writer, tickets []models.Ticket, generated time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Ticket Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Ticket Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s, %d tickets", generated.UTC().Format(time.RFC1123), len(tickets)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range csvHeader[:len(pdfWidths)] {
		pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range tickets {
		row := ticketRow(t)
		for i := range pdfWidths {
			align := "L"
			if i == 0 || i == 7 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], 6, tr(row[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}

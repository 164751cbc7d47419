package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	mimeCSV   = "text/csv"
	mimeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF   = "application/pdf"
	mimeICS   = "text/calendar"

	// calendar entries need an end; events only carry a start
	defaultEventLength = time.Hour

	productID = "-//event-scheduler//events export//ES"
)

var eventHeaders = []string{"ID", "Nombre", "Descripción", "Tipo", "Responsable", "Fecha", "Zona horaria", "Público", "Creado"}

// ReportExporter renders event rows in one of the supported formats
type ReportExporter interface {
	Export(format string, rows []EventReportRow) (data []byte, filename string, mime string, err error)
}

type reportExporter struct {
	now func() time.Time
}

func NewReportExporter() ReportExporter {
	return &reportExporter{now: time.Now}
}

func (e *reportExporter) Export(format string, rows []EventReportRow) ([]byte, string, string, error) {
	timestamp := e.now().Format("20060102_150405")

	var (
		data []byte
		mime string
		ext  string
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = e.exportEventsCSV(rows)
		mime, ext = mimeCSV, "csv"
	case FormatExcel, "excel":
		data, err = e.exportEventsExcel(rows)
		mime, ext = mimeExcel, "xlsx"
	case FormatPDF:
		data, err = e.exportEventsPDF(rows)
		mime, ext = mimePDF, "pdf"
	case FormatICS:
		data, err = e.exportEventsICS(rows)
		mime, ext = mimeICS, "ics"
	default:
		return nil, "", "", fmt.Errorf("unsupported format for events: %s", format)
	}
	if err != nil {
		return nil, "", "", err
	}

	return data, fmt.Sprintf("events_report_%s.%s", timestamp, ext), mime, nil
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func localStamp(r EventReportRow) string {
	return r.LocalDate.Format("2006-01-02 15:04")
}

func (r EventReportRow) record() []string {
	return []string{
		r.ID,
		r.Name,
		r.Description,
		r.EventType,
		r.Responsible,
		localStamp(r),
		r.Timezone,
		yesNo(r.IsPublic),
		r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// ===========================
// 📄 CSV
func (e *reportExporter) exportEventsCSV(rows []EventReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(eventHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := writer.Write(r.record()); err != nil {
			return nil, err
		}
	}

	// Flush before reading the buffer
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ===========================
// 📊 Excel
func (e *reportExporter) exportEventsExcel(rows []EventReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Eventos"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, header := range eventHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(eventHeaders), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, bold); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := r.record()
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ===========================
// 🧾 PDF
func (e *reportExporter) exportEventsPDF(rows []EventReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Reporte de eventos"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, tr("Generado: "+e.now().Format("2006-01-02 15:04")+"  ·  Total: "+strconv.Itoa(len(rows))))
	pdf.Ln(10)

	// ID and Description are left to the CSV/Excel exports
	headers := []string{"Nombre", "Tipo", "Responsable", "Fecha", "Zona horaria", "Público"}
	widths := []float64{70, 50, 45, 35, 50, 20}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		cells := []string{r.Name, r.EventType, r.Responsible, localStamp(r), r.Timezone, yesNo(r.IsPublic)}
		for i, v := range cells {
			align := "L"
			if i >= 3 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ===========================
// 📅 iCalendar
func (e *reportExporter) exportEventsICS(rows []EventReportRow) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := e.now().UTC()
	for _, r := range rows {
		ev := cal.AddEvent(r.ID)
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(r.CreatedAt.UTC())
		ev.SetModifiedAt(r.UpdatedAt.UTC())
		ev.SetStartAt(r.Date)
		ev.SetEndAt(r.Date.Add(defaultEventLength))
		ev.SetSummary(r.Name)
		if r.Description != "" {
			ev.SetDescription(r.Description)
		}
		if r.EventType != NotAvailable {
			ev.SetProperty(ical.ComponentPropertyCategories, r.EventType)
		}
		class := "PRIVATE"
		if r.IsPublic {
			class = "PUBLIC"
		}
		ev.SetProperty(ical.ComponentPropertyClass, class)
		if r.Email != "" {
			ev.SetOrganizer("mailto:"+r.Email, ical.WithCN(r.Responsible))
		}
	}

	return []byte(cal.Serialize()), nil
}

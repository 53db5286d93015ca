package service

import (
	"strings"
	"time"

	"github.com/sahil-chaple/happy-street-godhani/internal/models"
)

// ExportFilename is the attachment name of the CSV export.
const ExportFilename = "happy-street-data.csv"

const exportDateLayout = "1/2/2006"

var csvHeader = []string{"ID", "Name", "Phone", "Type", "Details", "Status", "Date"}

// RenderCSV lays out submissions as ID, Name, Phone, Type, Details, Status,
// Date. Name and Details are always quoted; other cells only when they
// need it. Rows are separated by "\n" with no trailing newline.
func RenderCSV(subs []models.Submission, loc *time.Location) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	for _, s := range subs {
		b.WriteByte('\n')
		row := []string{
			cell(s.ID),
			quote(s.Name),
			cell(s.Phone),
			cell(s.FormType),
			quote(s.Details),
			cell(s.Status),
			exportDate(s.SubmittedAt, loc),
		}
		b.WriteString(strings.Join(row, ","))
	}
	return []byte(b.String())
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func cell(v string) string {
	if strings.ContainsAny(v, ",\"\r\n") {
		return quote(v)
	}
	return v
}

func exportDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(exportDateLayout)
}

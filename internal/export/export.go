// Package export renders a task list as JSON, CSV or PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todoctl/internal/service"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// ErrUnknownFormat is returned for a format other than json, csv or pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// Options tweak the rendered document.
type Options struct {
	// Title heads the PDF document.
	Title string

	// Now stamps the PDF. Zero means time.Now.
	Now time.Time
}

// Export renders tasks in the given format, in list order.
func Export(tasks []service.Task, format string, opts Options) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return exportJSON(tasks)
	case FormatCSV:
		return exportCSV(tasks)
	case FormatPDF:
		return exportPDF(tasks, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func exportJSON(tasks []service.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func exportCSV(tasks []service.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write([]string{"id", "title", "completed"}); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if err := w.Write([]string{t.ID.String(), t.Title, strconv.FormatBool(t.Completed)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func exportPDF(tasks []service.Task, opts Options) ([]byte, error) {
	title := opts.Title
	if title == "" {
		title = "Tasks"
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, tr(title))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	done := 0
	for _, t := range tasks {
		x, y := pdf.GetX(), pdf.GetY()
		pdf.Rect(x, y+1, 4, 4, "D")
		if t.Completed {
			done++
			pdf.Line(x+0.8, y+3, x+1.8, y+4.2)
			pdf.Line(x+1.8, y+4.2, x+3.4, y+1.6)
		}
		pdf.SetX(x + 7)
		pdf.MultiCell(0, 6, tr(t.Title), "0", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 6, fmt.Sprintf("%d of %d completed, %s", done, len(tasks), now.Format("2006-01-02 15:04")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

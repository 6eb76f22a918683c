package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"todoctl/internal/service"
)

var sample = []service.Task{
	{ID: "1", Title: "buy milk"},
	{ID: "5c1e", Title: "walk dog, then feed", Completed: true},
}

func TestExportJSON(t *testing.T) {
	got, err := Export(sample, "json", Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	expected := `[
  {
    "id": 1,
    "title": "buy milk",
    "completed": false
  },
  {
    "id": "5c1e",
    "title": "walk dog, then feed",
    "completed": true
  }
]
`
	if string(got) != expected {
		t.Errorf("expected %q, got %q", expected, string(got))
	}
}

func TestExportJSON_Empty(t *testing.T) {
	got, err := Export(nil, "JSON", Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if string(got) != "[]\n" {
		t.Errorf("expected empty array, got %q", string(got))
	}
}

func TestExportCSV(t *testing.T) {
	got, err := Export(sample, "csv", Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	expected := "id,title,completed\n1,buy milk,false\n5c1e,\"walk dog, then feed\",true\n"
	if string(got) != expected {
		t.Errorf("expected %q, got %q", expected, string(got))
	}
}

func TestExportPDF(t *testing.T) {
	got, err := Export(sample, "pdf", Options{Title: "Chores", Now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.HasPrefix(got, []byte("%PDF")) {
		t.Errorf("expected PDF header, got %q", got[:min(len(got), 8)])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(sample, "xml", Options{})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

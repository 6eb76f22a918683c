package output

import (
	"bytes"
	"testing"

	"todoctl/internal/service"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task service.Task
		want string
	}{
		{"open", 1, service.Task{ID: "1", Title: "buy milk"}, "   1  [ ]  buy milk\n"},
		{"completed", 12, service.Task{ID: "2", Title: "walk dog", Completed: true}, "  12  [x]  walk dog\n"},
		{"untitled", 3, service.Task{ID: "3", Title: "  "}, "   3  [ ]  (untitled)\n"},
		{"multiline", 4, service.Task{ID: "4", Title: "line one\nline two"}, "   4  [ ]  line one line two\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.num, tt.task)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestFormatTaskWithID(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskWithID(&buf, 2, service.Task{ID: "5c1e", Title: "file taxes", Completed: true})

	expected := "   2  [x]  file taxes  (@5c1e)\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

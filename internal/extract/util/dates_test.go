package util

import "testing"

func TestFindDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slash", "apply by 01/08/2025 at noon", "01/08/2025"},
		{"dash", "due 31-12-2025", "31-12-2025"},
		{"iso", "starts 2025-09-01", "2025-09-01"},
		{"dotted", "bis 15.10.2025", "15.10.2025"},
		{"month dd yyyy", "by August 15, 2025", "August 15, 2025"},
		{"dd month yyyy", "by 15 August 2025", "15 August 2025"},
		{"none", "no date here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDate(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabeledValue(t *testing.T) {
	text := "Title: Intern\nDeadline: 01/08/2025 strictly\nMore text"
	if got := LabeledValue(text, "Deadline:", "Due:"); got != "01/08/2025 strictly" {
		t.Errorf("got %q", got)
	}
	if got := LabeledValue(text, "Due:"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestLabeledDate(t *testing.T) {
	text := "From: 01/08/2025\nUntil: 31/12/2025"
	if got := LabeledDate(text, "From:"); got != "01/08/2025" {
		t.Errorf("got %q", got)
	}
	if got := LabeledDate(text, "Until:"); got != "31/12/2025" {
		t.Errorf("got %q", got)
	}
	if got := LabeledDate("Deadline: as soon as possible", "Deadline:"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

package cli

import (
	"strings"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"Setting", "Value"})

	table.AddRow([]string{"maxWidth", "640"})
	table.AddRow([]string{"ensureBlue"})
	table.AddRow([]string{"minChroma", "6", "extra"})

	if len(table.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.rows))
	}
	for i, row := range table.rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d columns, want 2", i, len(row))
		}
	}
	if table.rows[1][1] != "" {
		t.Errorf("Expected empty string for padded column, got %q", table.rows[1][1])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"Setting", "general", "darkNavies"})
	table.AlignRight(1)
	table.AlignRight(2)
	table.AddRow([]string{"maxWidth", "640", "640"})
	table.AddRow([]string{"maxBlueDupes", "5000", "4000"})

	want := strings.Join([]string{
		"Setting       general  darkNavies",
		"------------  -------  ----------",
		"maxWidth          640         640",
		"maxBlueDupes     5000        4000",
		"",
	}, "\n")
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderTrimsTrailingSpace(t *testing.T) {
	table := NewTable([]string{"Name", "Note"})
	table.AddRow([]string{"general", ""})

	for _, line := range strings.Split(strings.TrimSuffix(table.Render(), "\n"), "\n") {
		if strings.HasSuffix(line, " ") {
			t.Errorf("line %q has trailing space", line)
		}
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestPadding(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string, int) string
		in    string
		width int
		want  string
	}{
		{name: "right pads", fn: padRight, in: "ab", width: 4, want: "ab  "},
		{name: "right keeps long", fn: padRight, in: "abcdef", width: 4, want: "abcdef"},
		{name: "left pads", fn: padLeft, in: "42", width: 5, want: "   42"},
		{name: "left keeps exact", fn: padLeft, in: "1234", width: 4, want: "1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in, tt.width); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

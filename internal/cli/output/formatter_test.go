package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type testVehicle struct {
	ID     int64     `json:"id" table:"ID"`
	Name   string    `json:"name" table:"VEHICLE"`
	Plate  string    `json:"licensePlate" table:"PLATE,wide"`
	Rate   int64     `json:"rate"`
	Added  time.Time `json:"added" table:"-"`
	hidden string
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", " yaml "} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if IsValidFormat("xml") {
		t.Error("xml should not be valid")
	}
	if FormatTable.IsStructured() || !FormatJSON.IsStructured() {
		t.Error("IsStructured mismatch")
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("json formatter expected")
	}
	if _, ok := NewFormatter(FormatYAML, false).(*YAMLFormatter); !ok {
		t.Error("yaml formatter expected")
	}
	if f, ok := NewFormatter("", true).(*TableFormatter); !ok || !f.Wide {
		t.Error("wide table formatter expected")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, testVehicle{ID: 1, Name: "Toyota Corolla"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"name": "Toyota Corolla"`) {
		t.Errorf("unexpected JSON: %s", buf.String())
	}
}

func TestYAMLFormatter_UsesJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	err := (&YAMLFormatter{}).Format(&buf, []testVehicle{{ID: 2, Name: "Honda Civic", Plate: "XYZ-789", Rate: 45}})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"- id: 2", "licensePlate: XYZ-789", "rate: 45"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_SliceOfStructs(t *testing.T) {
	rows := []testVehicle{
		{ID: 1, Name: "Toyota Corolla", Plate: "ABC-123", Rate: 50},
		{ID: 2, Name: "Honda Civic", Plate: "XYZ-789", Rate: 45},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "VEHICLE") || !strings.Contains(out, "RATE") {
		t.Errorf("headers missing:\n%s", out)
	}
	if strings.Contains(out, "PLATE") || strings.Contains(out, "ABC-123") {
		t.Errorf("wide column shown in narrow mode:\n%s", out)
	}
	if strings.Contains(out, "ADDED") {
		t.Errorf("hidden column shown:\n%s", out)
	}

	buf.Reset()
	if err := (&TableFormatter{Wide: true}).Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "ABC-123") {
		t.Errorf("wide column missing:\n%s", buf.String())
	}
}

func TestTableFormatter_SingleStruct(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, &testVehicle{ID: 3, Name: "Tesla Model 3"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if !strings.HasPrefix(lines[0], "FIELD") || len(lines) != 4 {
		t.Errorf("unexpected table:\n%s", buf.String())
	}
}

func TestTableFormatter_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{NoHeaders: true}).Format(&buf, map[string]int{"rented": 2, "available": 3})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "available") {
		t.Errorf("unexpected table:\n%s", buf.String())
	}
}

func TestTableFormatter_FallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, 42); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "42" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatValue_Empty(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable("NAME", "EMAIL")
	tbl.AddRow("Ann", "-")
	if err := tbl.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Ann") {
		t.Errorf("row missing:\n%s", buf.String())
	}

	buf.Reset()
	_ = (&TableFormatter{}).Format(&buf, []testVehicle{{ID: 4}})
	if !strings.Contains(buf.String(), "-") {
		t.Errorf("empty name should render as -:\n%s", buf.String())
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ID", "ID"},
		{"Name", "Name"},
		{"CreatedAt", "Created_At"},
		{"ImageURL", "Image_URL"},
		{"URLPath", "URL_Path"},
		{"CustomerID", "Customer_ID"},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTableFormatter_UntaggedAcronymHeader(t *testing.T) {
	type row struct {
		ID       int64
		ImageURL string
	}
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []row{{ID: 1, ImageURL: "a.png"}}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if strings.Fields(header)[0] != "ID" || !strings.Contains(header, "IMAGE_URL") {
		t.Errorf("unexpected header %q", header)
	}
}

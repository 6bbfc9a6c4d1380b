package entity

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/bubblerow/pkg/errors"
)

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{
			name:   "json object",
			format: FormatJSON,
			input:  `{"entities":[{"id":1,"name":"You","persons":1,"turnover":40000},{"id":2,"name":"Town","persons":10000,"turnover":4e8}]}`,
		},
		{
			name:   "json array",
			format: FormatJSON,
			input:  `[{"id":1,"name":"You","persons":1,"turnover":40000},{"id":2,"name":"Town","persons":10000,"turnover":4e8}]`,
		},
		{
			name:   "toml",
			format: FormatTOML,
			input: `
[[entities]]
id = 1
name = "You"
persons = 1
turnover = 40000

[[entities]]
id = 2
name = "Town"
persons = 10000
turnover = 4e8
`,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			input: `
entities:
  - id: 1
    name: You
    persons: 1
    turnover: 40000
  - id: 2
    name: Town
    persons: 10000
    turnover: 400000000
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("len = %d, want 2", len(got))
			}
			if got[0].Name != "You" || got[1].ID != 2 || got[1].Turnover != 4e8 {
				t.Errorf("Decode() = %+v", got)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		got, err := Decode(strings.NewReader(""), f)
		if err != nil {
			t.Errorf("Decode(empty %s) error = %v", f, err)
		}
		if len(got) != 0 {
			t.Errorf("Decode(empty %s) = %v, want empty", f, got)
		}
	}
}

func TestDecodeDuplicateID(t *testing.T) {
	input := `[{"id":1,"name":"A","persons":1},{"id":1,"name":"B","persons":2}]`
	_, err := Decode(strings.NewReader(input), FormatJSON)
	if !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("Decode() error = %v, want DUPLICATE_ID", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		entities []Entity
		code     errors.Code
	}{
		{"empty", nil, ""},
		{"sample", Sample(), ""},
		{"negative allowed", []Entity{{ID: 1, Name: "Debt", Turnover: -5}}, ""},
		{"blank name", []Entity{{ID: 1, Name: " "}}, errors.ErrCodeInvalidDataset},
		{"duplicate", []Entity{{ID: 7, Name: "A"}, {ID: 7, Name: "B"}}, errors.ErrCodeDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.entities)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err=%v)", got, tt.code, err)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, Sample(), f); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(&buf, f)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(got) != len(Sample()) {
				t.Errorf("decoded %d entities, want %d", len(got), len(Sample()))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "world.toml")
	if err := os.WriteFile(path, []byte("[[entities]]\nid = 3\nname = \"World\"\npersons = 8e9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].Persons != 8e9 {
		t.Errorf("Load() = %+v", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := Load(filepath.Join(dir, "data.csv")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load(csv) error = %v, want INVALID_FORMAT", err)
	}
}

func TestSampleIsCopy(t *testing.T) {
	a := Sample()
	a[0].Name = "changed"
	if Sample()[0].Name != "You" {
		t.Error("Sample() must return an independent copy")
	}
}

func TestDailyTurnover(t *testing.T) {
	e := Entity{Turnover: 365_000}
	if got := e.DailyTurnover(); got != 1000 {
		t.Errorf("DailyTurnover() = %v, want 1000", got)
	}
}

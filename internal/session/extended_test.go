package session

import (
	"encoding/json"
	"testing"

	atlaserrors "github.com/daveygoode/atlas/internal/errors"
)

func TestParseExtended(t *testing.T) {
	ext, err := ParseExtended(`{"decisions": ["Use JWT", "Postgres"], "important_notes": "rotate keys", "count": 3, "nested": {"a": 1}}`)
	if err != nil {
		t.Fatalf("ParseExtended() error = %v", err)
	}

	wantKeys := []string{"decisions", "important_notes", "count", "nested"}
	if len(ext) != len(wantKeys) {
		t.Fatalf("got %d entries, want %d", len(ext), len(wantKeys))
	}
	for i, k := range wantKeys {
		if ext[i].Key != k {
			t.Errorf("entry %d key = %q, want %q", i, ext[i].Key, k)
		}
	}

	decisions, _ := ext.Get("decisions")
	if !decisions.IsList || len(decisions.List) != 2 || decisions.List[1] != "Postgres" {
		t.Errorf("decisions = %+v", decisions)
	}
	if v, _ := ext.Get("count"); v.Text != "3" {
		t.Errorf("count = %q, want %q", v.Text, "3")
	}
	if v, _ := ext.Get("nested"); v.Text != `{"a":1}` {
		t.Errorf("nested = %q", v.Text)
	}
}

func TestParseExtended_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{not json"},
		{"array", `["a"]`},
		{"string", `"text"`},
		{"trailing data", `{"a": "b"} extra`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtended(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !atlaserrors.Is(err, atlaserrors.KindInvalid) {
				t.Errorf("kind = %v, want invalid", atlaserrors.GetKind(err))
			}
		})
	}
}

func TestParseExtended_Blank(t *testing.T) {
	ext, err := ParseExtended("   ")
	if err != nil || ext != nil {
		t.Errorf("ParseExtended(blank) = %v, %v; want nil, nil", ext, err)
	}
}

func TestExtended_MarshalKeepsOrder(t *testing.T) {
	ext := Extended{}.
		Set("zeta", Text("last <b>")).
		Set("alpha", List("x", "y"))

	data, err := json.Marshal(ext)
	if err != nil {
		t.Fatal(err)
	}
	// json.Marshal escapes HTML on its own pass, so compare after a decode.
	var back Extended
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || back[0].Key != "zeta" || back[1].Key != "alpha" {
		t.Fatalf("order lost: %+v", back)
	}
	if back[0].Value.Text != "last <b>" {
		t.Errorf("zeta = %q", back[0].Value.Text)
	}
	if !back[1].Value.IsList || back[1].Value.String() != "x, y" {
		t.Errorf("alpha = %+v", back[1].Value)
	}
}

func TestExtended_NilMarshalsNull(t *testing.T) {
	var ext Extended
	data, err := ext.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "null" {
		t.Errorf("MarshalJSON() = %s, want null", data)
	}
}

func TestExtended_SetReplaces(t *testing.T) {
	ext := Extended{}.Set("a", Text("1")).Set("b", Text("2")).Set("a", Text("3"))
	if len(ext) != 2 {
		t.Fatalf("len = %d, want 2", len(ext))
	}
	if v, _ := ext.Get("a"); v.Text != "3" || ext[0].Key != "a" {
		t.Errorf("a = %+v at %q", v, ext[0].Key)
	}
}

package catalog

import (
	"errors"
	"testing"
)

func TestListOrderStable(t *testing.T) {
	c := New("")

	want := []string{"custom", "tshirt-white", "tshirt-black", "hoodie-white", "hoodie-black"}
	for i := 0; i < 3; i++ {
		got := c.List()
		if len(got) != len(want) {
			t.Fatalf("expected %d templates, got %d", len(want), len(got))
		}
		for j, id := range want {
			if got[j].ID != id {
				t.Errorf("position %d: expected %q, got %q", j, id, got[j].ID)
			}
		}
	}
}

func TestGetUnknownID(t *testing.T) {
	c := New("")
	if _, err := c.Get("beanie-red"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestStandardTemplatesHaveAssets(t *testing.T) {
	for _, tpl := range New("assets").List() {
		if tpl.Custom {
			if tpl.ImagePath != "" {
				t.Errorf("custom slot should start with empty image path, got %q", tpl.ImagePath)
			}
			continue
		}
		if tpl.ImagePath == "" || tpl.DisplacementPath == "" {
			t.Errorf("template %s missing asset paths", tpl.ID)
		}
		if len(tpl.PrintAreas) == 0 {
			t.Errorf("template %s has no print areas", tpl.ID)
		}
	}
}

func TestFirstStandardSkipsCustom(t *testing.T) {
	c := New("")
	if got := c.FirstStandard().ID; got != "tshirt-white" {
		t.Fatalf("expected tshirt-white, got %s", got)
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		parsed, err := ParseMethod(string(m))
		if err != nil {
			t.Fatalf("ParseMethod(%s): %v", m, err)
		}
		if parsed != m {
			t.Errorf("ParseMethod(%s) = %s", m, parsed)
		}
	}
	if _, err := ParseMethod("sublimation"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestBaseOpacity(t *testing.T) {
	cases := map[PrintMethod]float64{
		MethodScreenPrint: 0.95,
		MethodDTG:         0.90,
		MethodEmbroidery:  0.97,
		MethodVinyl:       1.00,
	}
	for m, want := range cases {
		if got := m.BaseOpacity(); got != want {
			t.Errorf("%s base opacity = %v, want %v", m, got, want)
		}
	}
}

package prize

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadMissingKeepsCurrent(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "prizes.yaml"), nil)
	cur := Default()
	got, err := l.Load(cur)
	if err != nil {
		t.Fatalf("missing artifact should not error: %v", err)
	}
	if got.Len() != cur.Len() {
		t.Fatalf("catalog changed: got %d prizes want %d", got.Len(), cur.Len())
	}
}

func TestLoadMalformedKeepsCurrent(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty.json":   "",
		"broken.json":  `{"prizes": [`,
		"noitems.yaml": "prizes: []\n",
		"dup.yaml": `prizes:
  - {id: A, name: A, category: Small, initialStock: 1}
  - {id: a, name: a, category: Small, initialStock: 1}
`,
	}
	for name, body := range cases {
		l := NewLoader(writeFile(t, dir, name, body), nil)
		got, err := l.Load(Default())
		if !errors.Is(err, ErrCatalogMalformed) {
			t.Fatalf("%s: err=%v want ErrCatalogMalformed", name, err)
		}
		if got.Len() != Default().Len() {
			t.Fatalf("%s: catalog replaced on malformed input", name)
		}
	}
}

func TestLoadJSONReplacesCatalog(t *testing.T) {
	body := `{"prizes": [
		{"id": "A", "name": "Pen", "category": "small", "weight": 2, "initialStock": 5},
		{"id": "B", "name": "Bag", "category": "LARGE", "initialStock": -3},
		{"id": "C", "name": "Cap", "category": "huge", "weight": 0.5, "initialStock": 1},
		{"id": "tryagain", "name": "Try again", "category": "Small", "initialStock": 1}
	]}`
	l := NewLoader(writeFile(t, t.TempDir(), "prizes.json", body), nil)
	got, err := l.Load(Default())
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 4 {
		t.Fatalf("len=%d want 4", got.Len())
	}
	if got.Prizes[0].Weight != 2 || got.Prizes[0].Category != Small {
		t.Fatalf("A parsed wrong: %+v", got.Prizes[0])
	}
	if got.Prizes[1].Weight != 1 {
		t.Fatalf("absent weight should default to 1, got %v", got.Prizes[1].Weight)
	}
	if got.Prizes[1].Category != Large || got.Prizes[1].InitialStock != 0 {
		t.Fatalf("B parsed wrong: %+v", got.Prizes[1])
	}
	if got.Prizes[2].Category != Small {
		t.Fatalf("unknown category should default to Small, got %v", got.Prizes[2].Category)
	}
	if got.FillerIndex() != 3 {
		t.Fatalf("filler index=%d want 3", got.FillerIndex())
	}
}

func TestLoadYAML(t *testing.T) {
	body := `prizes:
  - id: MUG
    name: Mug
    category: Medium
    weight: 1.5
    initialStock: 4
  - id: TRYAGAIN
    name: Try again
    category: Small
    initialStock: 1
`
	l := NewLoader(writeFile(t, t.TempDir(), "prizes.yaml", body), nil)
	got, err := l.Load(Catalog{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 2 || got.Prizes[0].Category != Medium || got.Prizes[0].Weight != 1.5 {
		t.Fatalf("unexpected catalog: %+v", got.Prizes)
	}
}

func TestIndexOfCaseInsensitive(t *testing.T) {
	c := Default()
	if c.IndexOf("mug") != c.IndexOf("MUG") || c.IndexOf("mug") < 0 {
		t.Fatalf("IndexOf should ignore case")
	}
	if c.IndexOf("nope") != -1 {
		t.Fatalf("unknown id should be -1")
	}
	if !c.Prizes[c.FillerIndex()].IsFiller() {
		t.Fatalf("filler lookup broken")
	}
}

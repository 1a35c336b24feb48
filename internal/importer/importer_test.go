package importer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestImport_Passthrough(t *testing.T) {
	input := "# A\r\n\ntext\n"
	for _, name := range []string{"notes.txt", "notes.md", "NOTES.MARKDOWN"} {
		got, err := Importer{Marker: '#'}.Import(strings.NewReader(input), name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got != input {
			t.Errorf("%s: expected verbatim text, got %q", name, got)
		}
	}
}

func TestImport_MarkdownWithOtherMarker(t *testing.T) {
	input := "# A\ntext\n## B\n"
	got, err := Importer{Marker: '*'}.Import(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "* A\n\ntext\n\n** B\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestImport_HTML(t *testing.T) {
	input := `<html><head><title>Guide</title></head><body>
<nav>skip me</nav>
<h1>One</h1><p>para</p>
<h2>Two</h2><ul><li>x</li></ul>
</body></html>`
	got, err := Importer{}.Import(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# One\n\npara\n\n## Two\n\nx\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHTMLParser_Title(t *testing.T) {
	input := `<html><head><title>Guide</title></head><body><h3>Deep</h3></body></html>`
	tree, err := (&HTMLParser{}).Parse(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "Guide" {
		t.Errorf("expected title %q, got %q", "Guide", tree.Title)
	}
	if len(tree.Children) != 1 || tree.Children[0].Level != 3 {
		t.Errorf("expected one level 3 node, got %+v", tree.Children)
	}
}

func TestImport_CSV(t *testing.T) {
	input := "name,age\nann,3\n,4,x\n"
	got, err := Importer{}.Import(strings.NewReader(input), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# Rows 2-3\n\n## ann\n\nname: ann\nage: 3\n\n## 4\n\nage: 4\nx\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCSVParser_Batches(t *testing.T) {
	var input strings.Builder
	input.WriteString("id\n")
	for i := range 45 {
		fmt.Fprintf(&input, "r%d\n", i)
	}
	tree, err := (&CSVParser{}).Parse(strings.NewReader(input.String()), "ids.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "ids" {
		t.Errorf("expected title ids, got %q", tree.Title)
	}
	var titles []string
	for _, n := range tree.Children {
		titles = append(titles, n.Title)
	}
	if diff := cmp.Diff([]string{"Rows 2-21", "Rows 22-41", "Rows 42-46"}, titles); diff != "" {
		t.Errorf("batch titles mismatch (-want +got):\n%s", diff)
	}
	if n := len(tree.Children[2].Children); n != 5 {
		t.Errorf("expected 5 rows in last batch, got %d", n)
	}
}

func TestPagesToTree(t *testing.T) {
	tree := pagesToTree("report", "first page\f\f third page \n")
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 non-empty pages, got %d", len(tree.Children))
	}
	if tree.Children[1].Title != "Page 3" || tree.Children[1].Page != 3 || tree.Children[1].Text != "third page" {
		t.Errorf("unexpected page node %+v", tree.Children[1])
	}
}

func TestImport_Unsupported(t *testing.T) {
	if _, err := (Importer{}).Import(strings.NewReader("x"), "image.png"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("image.png") {
		t.Error("expected .png to be unsupported")
	}
	for _, name := range []string{"a.md", "a.DOCX", "a.pdf", "a.htm"} {
		if !IsSupportedExtension(name) {
			t.Errorf("expected %s to be supported", name)
		}
	}
}

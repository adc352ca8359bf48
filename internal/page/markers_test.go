package page

import (
	"strings"
	"testing"

	"github.com/dimonss/BirthdayBackend/internal/catalog"
)

const sampleDoc = `<!DOCTYPE html>
<html>
<head>
<title>{{EVENT_TITLE}}</title>
<meta name="description" content="{{EVENT_DESCRIPTION}}">
<meta name="keywords" content="{{EVENT_KEYWORDS}}">
<meta property="og:url" content="{{PAGE_URL}}">
<meta property="article:published_time" content="{{CREATION_DATE}}">
<meta property="article:modified_time" content="{{MODIFICATION_DATE}}">
<meta name="generator" content="{{TEMPLATE_NAME}}">
</head>
<body>
<img alt="{{EVENT_NAME}}">
<div class="message">placeholder</div>
</body>
</html>`

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func TestResolve_ReplacesAllMarkers(t *testing.T) {
	c := mustCatalog(t)
	out := Resolve(c, sampleDoc, "wedding", "indexTwo", "https://example.com/p/alice", "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z")

	if strings.Contains(out, "{{") {
		t.Fatalf("unresolved markers remain:\n%s", out)
	}
	occ := c.OccasionByID("wedding")
	for _, want := range []string{
		occ.Title,
		occ.PageDescription,
		occ.Keywords,
		occ.Name,
		c.TemplateByID("indexTwo").Name,
		"https://example.com/p/alice",
		"2024-01-01T00:00:00Z",
		"2024-01-02T00:00:00Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	c := mustCatalog(t)
	a := Resolve(c, sampleDoc, "anniversary", "indexThree", "https://example.com/p/bob", "t1", "t1")
	b := Resolve(c, sampleDoc, "anniversary", "indexThree", "https://example.com/p/bob", "t1", "t1")
	if a != b {
		t.Fatal("identical inputs produced different output")
	}
	// Differing only in timestamps, the rest must be identical.
	c2 := Resolve(c, sampleDoc, "anniversary", "indexThree", "https://example.com/p/bob", "t2", "t2")
	if strings.ReplaceAll(a, "t1", "X") != strings.ReplaceAll(c2, "t2", "X") {
		t.Fatal("non-timestamp content changed between regenerations")
	}
}

func TestResolve_UnknownOccasionFallsBackToBirthday(t *testing.T) {
	c := mustCatalog(t)
	unknown := Resolve(c, sampleDoc, "graduation", "indexFirst", "u", "d", "d")
	birthday := Resolve(c, sampleDoc, "birthday", "indexFirst", "u", "d", "d")
	if unknown != birthday {
		t.Fatal("unknown occasion did not fall back to birthday")
	}
}

func TestResolve_UnknownTemplateFallsBackToDefault(t *testing.T) {
	c := mustCatalog(t)
	unknown := Resolve(c, sampleDoc, "birthday", "indexNine", "u", "d", "d")
	first := Resolve(c, sampleDoc, "birthday", "indexFirst", "u", "d", "d")
	if unknown != first {
		t.Fatal("unknown template did not fall back to the default template")
	}
}

func TestResolve_MessageBlock(t *testing.T) {
	c := mustCatalog(t)
	out := Resolve(c, sampleDoc, "valentine", "indexValentine", "u", "d", "d")
	want := `<div class="message">` + c.OccasionByID("valentine").Greeting + `</div>`
	if !strings.Contains(out, want) {
		t.Fatalf("message block not replaced, got:\n%s", out)
	}
	if strings.Contains(out, "placeholder") {
		t.Fatal("old message content still present")
	}
}

func TestResolve_MessageBlockSpansLines(t *testing.T) {
	c := mustCatalog(t)
	doc := "<div class=\"message\">\n  old\n  lines\n</div>"
	out := Resolve(c, doc, "birthday", "indexFirst", "u", "d", "d")
	want := `<div class="message">` + c.OccasionByID("birthday").Greeting + `</div>`
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestResolve_MultipleMessageBlocks(t *testing.T) {
	c := mustCatalog(t)
	doc := `<div class="message">a</div><p>x</p><div class="message">b</div>`
	out := Resolve(c, doc, "birthday", "indexFirst", "u", "d", "d")
	greeting := c.OccasionByID("birthday").Greeting
	if got := strings.Count(out, greeting); got != 2 {
		t.Fatalf("expected 2 replaced blocks, got %d in %q", got, out)
	}
}

func TestResolve_NoMessageBlockLeavesDocumentAlone(t *testing.T) {
	c := mustCatalog(t)
	doc := "<p>no markers at all</p>"
	if out := Resolve(c, doc, "birthday", "indexFirst", "u", "d", "d"); out != doc {
		t.Fatalf("document without markers changed: %q", out)
	}
}

func TestResolvePageURL(t *testing.T) {
	doc := `<a href="{{PAGE_URL}}">{{PAGE_URL}}</a> {{EVENT_TITLE}}`
	out := ResolvePageURL(doc, "https://example.com/p/carol")
	if out != `<a href="https://example.com/p/carol">https://example.com/p/carol</a> {{EVENT_TITLE}}` {
		t.Fatalf("got %q", out)
	}
}

package page

import (
	"regexp"
	"strings"

	"github.com/dimonss/BirthdayBackend/internal/catalog"
)

// Marker tokens recognized inside template documents. Tokens are literal and
// case-sensitive; every occurrence is replaced, absent tokens are ignored and
// no escaping is performed.
const (
	markerEventTitle       = "{{EVENT_TITLE}}"
	markerEventDescription = "{{EVENT_DESCRIPTION}}"
	markerEventKeywords    = "{{EVENT_KEYWORDS}}"
	markerEventName        = "{{EVENT_NAME}}"
	markerTemplateName     = "{{TEMPLATE_NAME}}"
	markerPageURL          = "{{PAGE_URL}}"
	markerCreationDate     = "{{CREATION_DATE}}"
	markerModificationDate = "{{MODIFICATION_DATE}}"
)

// messageBlockRe matches the greeting block of a template document. Non-greedy
// so it stops at the first closing tag; (?s) lets the block span lines.
var messageBlockRe = regexp.MustCompile(`(?s)<div class="message">.*?</div>`)

// Resolve substitutes all marker tokens in document using the occasion and
// template metadata from cat, then replaces the contents of every
// `<div class="message">` block with the occasion greeting. Unknown occasion
// and template ids fall back to their catalog defaults. Pure function over
// text; documents without markers or message blocks pass through unchanged.
func Resolve(cat *catalog.Catalog, document, occasionID, templateID, pageURL, createdAt, modifiedAt string) string {
	occ := cat.OccasionByID(occasionID)
	tpl := cat.TemplateByID(templateID)

	out := strings.NewReplacer(
		markerEventTitle, occ.Title,
		markerEventDescription, occ.PageDescription,
		markerEventKeywords, occ.Keywords,
		markerEventName, occ.Name,
		markerTemplateName, tpl.Name,
		markerPageURL, pageURL,
		markerCreationDate, createdAt,
		markerModificationDate, modifiedAt,
	).Replace(document)

	out = messageBlockRe.ReplaceAllLiteralString(out, `<div class="message">`+occ.Greeting+`</div>`)
	return out
}

// ResolvePageURL substitutes only the PAGE_URL marker. Used for the neutral
// default document written after a delete.
func ResolvePageURL(document, pageURL string) string {
	return strings.ReplaceAll(document, markerPageURL, pageURL)
}

package page

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dimonss/BirthdayBackend/internal/catalog"
	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
	"github.com/dimonss/BirthdayBackend/internal/storage"
)

// DefaultTemplateFile is the template used for the neutral document written
// after a delete. It is not part of the selectable catalog.
const DefaultTemplateFile = "default"

// Generator materializes a user's page artifact from a template document, the
// occasion/template catalogs and the user's page URL. Artifact writes go
// through the asset store and are whole-document, never incremental.
type Generator struct {
	templatesDir string
	baseURL      string
	catalog      *catalog.Catalog
	assets       storage.Store
	log          *logger.Logger

	// now is swappable in tests; both date markers receive the same value
	// at every regeneration, so original creation time is not preserved.
	now func() time.Time
}

func NewGenerator(templatesDir, baseURL string, cat *catalog.Catalog, assets storage.Store, baseLog *logger.Logger) *Generator {
	return &Generator{
		templatesDir: templatesDir,
		baseURL:      baseURL,
		catalog:      cat,
		assets:       assets,
		log:          baseLog.With("service", "PageGenerator"),
		now:          time.Now,
	}
}

// PageURL returns the public URL of a user's page.
func (g *Generator) PageURL(username string) string {
	return g.baseURL + "/" + username
}

// Generate resolves the selected template and occasion and overwrites the
// user's artifact. A missing template file degrades to the default catalog
// template's source; that is logged, not surfaced. Empty ids resolve to the
// catalog defaults. Idempotent modulo the timestamp markers.
func (g *Generator) Generate(username, templateID, occasionID string) error {
	tpl := g.catalog.TemplateByID(templateID)
	doc, err := g.readTemplate(tpl.ID)
	if err != nil {
		g.log.Error("template source missing, using default", "template", tpl.ID, "error", err)
		doc, err = g.readTemplate(g.catalog.DefaultTemplateID())
		if err != nil {
			return fmt.Errorf("read default template: %w", err)
		}
	}

	now := g.now().UTC().Format(time.RFC3339)
	html := Resolve(g.catalog, doc, occasionID, tpl.ID, g.PageURL(username), now, now)

	if err := g.assets.WriteArtifact(username, []byte(html)); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	g.log.Info("page generated", "username", username, "template", tpl.ID, "occasion", g.catalog.OccasionByID(occasionID).ID)
	return nil
}

// GenerateDefault writes the neutral document used after a delete: the default
// template with only the page URL resolved, no occasion or template styling.
func (g *Generator) GenerateDefault(username string) error {
	doc, err := g.readTemplate(DefaultTemplateFile)
	if err != nil {
		return fmt.Errorf("read neutral template: %w", err)
	}
	html := ResolvePageURL(doc, g.PageURL(username))
	if err := g.assets.WriteArtifact(username, []byte(html)); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	g.log.Info("neutral page written", "username", username)
	return nil
}

func (g *Generator) readTemplate(id string) (string, error) {
	data, err := os.ReadFile(filepath.Join(g.templatesDir, id+".html"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Occasion describes one entry of the occasion catalog: the selectable event
// type plus the metadata substituted into a generated page. Label is the
// keyboard-facing variant of Name.
type Occasion struct {
	ID              string `yaml:"id"`
	Label           string `yaml:"label"`
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Title           string `yaml:"title"`
	PageDescription string `yaml:"page_description"`
	Keywords        string `yaml:"keywords"`
	Greeting        string `yaml:"greeting"`
}

// Template describes one selectable page template. The template's source
// document lives on disk under the configured templates directory as <ID>.html.
type Template struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Catalog holds the fixed occasion and template lists. Both are loaded once at
// process start; membership is the sole validity check for a user selection.
type Catalog struct {
	Occasions []Occasion `yaml:"occasions"`
	Templates []Template `yaml:"templates"`
}

// DefaultOccasionID is the fallback for absent or unknown occasion selections.
const DefaultOccasionID = "birthday"

//go:embed catalog.yaml
var catalogYAML []byte

func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Occasions) == 0 || len(c.Templates) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return &c, nil
}

// OccasionByID returns the catalog entry for id, falling back to the birthday
// entry when id is unknown or empty.
func (c *Catalog) OccasionByID(id string) Occasion {
	for _, o := range c.Occasions {
		if o.ID == id {
			return o
		}
	}
	for _, o := range c.Occasions {
		if o.ID == DefaultOccasionID {
			return o
		}
	}
	return c.Occasions[0]
}

// TemplateByID returns the catalog entry for id, falling back to the first
// (default) template when id is unknown or empty.
func (c *Catalog) TemplateByID(id string) Template {
	for _, t := range c.Templates {
		if t.ID == id {
			return t
		}
	}
	return c.Templates[0]
}

// HasOccasion reports whether id names a catalog occasion.
func (c *Catalog) HasOccasion(id string) bool {
	for _, o := range c.Occasions {
		if o.ID == id {
			return true
		}
	}
	return false
}

// HasTemplate reports whether id names a catalog template.
func (c *Catalog) HasTemplate(id string) bool {
	for _, t := range c.Templates {
		if t.ID == id {
			return true
		}
	}
	return false
}

// DefaultTemplateID returns the id of the first catalog template.
func (c *Catalog) DefaultTemplateID() string {
	return c.Templates[0].ID
}

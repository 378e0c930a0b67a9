package notify

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/visawatch/internal/model"
	"gopkg.in/yaml.v3"
)

// Template is a subject and body with {placeholder} markers.
//
// Supported placeholders: {name}, {category}, {days} (absolute day count),
// {remaining} ("N days remaining") and {signature}.
type Template struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// CategoryTemplates holds the wording for dates still ahead and dates passed.
type CategoryTemplates struct {
	Upcoming Template `yaml:"upcoming"`
	Expired  Template `yaml:"expired"`
}

// Catalog maps category labels to their templates. Categories without an
// entry use Default.
type Catalog struct {
	Categories map[string]CategoryTemplates `yaml:"categories"`
	Default    CategoryTemplates            `yaml:"default"`
	Signature  string                       `yaml:"signature"`
}

// DefaultCatalog returns the built-in wording for visa and registration notices.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Signature: "International Student Office",
		Default: CategoryTemplates{
			Upcoming: Template{
				Subject: "{category} expiry reminder",
				Body: "Dear {name},\n\n" +
					"Your {category} expiry date is approaching: {remaining}.\n" +
					"Please arrange a renewal before it lapses.\n\n" +
					"{signature}",
			},
			Expired: Template{
				Subject: "{category} has expired",
				Body: "Dear {name},\n\n" +
					"Our records show that your {category} has expired.\n" +
					"Please contact us as soon as possible.\n\n" +
					"{signature}",
			},
		},
		Categories: map[string]CategoryTemplates{
			"Visa": {
				Expired: Template{
					Subject: "Action required: your visa has expired",
					Body: "Dear {name},\n\n" +
						"Our records show that your visa expired {days} days ago.\n" +
						"Please bring your passport and renewal documents to the office immediately.\n\n" +
						"{signature}",
				},
			},
			"Registration": {
				Expired: Template{
					Subject: "Action required: your registration has lapsed",
					Body: "Dear {name},\n\n" +
						"Your registration lapsed {days} days ago.\n" +
						"Please re-register through the student portal to keep your enrolment active.\n\n" +
						"{signature}",
				},
			},
		},
	}
}

// LoadCatalog reads a YAML catalog from path and layers it over the defaults.
// An empty path returns the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read template catalog: %w", err)
	}

	var overrides Catalog
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse template catalog %s: %w", path, err)
	}

	catalog.merge(overrides)
	return catalog, nil
}

func (c *Catalog) merge(o Catalog) {
	if o.Signature != "" {
		c.Signature = o.Signature
	}
	c.Default = mergeCategory(c.Default, o.Default)
	for name, tmpl := range o.Categories {
		c.Categories[name] = mergeCategory(c.Categories[name], tmpl)
	}
}

func mergeCategory(base, o CategoryTemplates) CategoryTemplates {
	return CategoryTemplates{
		Upcoming: mergeTemplate(base.Upcoming, o.Upcoming),
		Expired:  mergeTemplate(base.Expired, o.Expired),
	}
}

func mergeTemplate(base, o Template) Template {
	if o.Subject != "" {
		base.Subject = o.Subject
	}
	if o.Body != "" {
		base.Body = o.Body
	}
	return base
}

// template picks the category's template, falling back part by part to Default.
func (c *Catalog) template(category string, expired bool) Template {
	fallback := c.Default.Upcoming
	if expired {
		fallback = c.Default.Expired
	}

	entry, ok := c.Categories[category]
	if !ok {
		return fallback
	}

	t := entry.Upcoming
	if expired {
		t = entry.Expired
	}
	return mergeTemplate(fallback, t)
}

// Render fills the template for tctx. It never fails; an empty name becomes
// "Student" and a missing day count renders as 0.
func (c *Catalog) Render(to string, tctx model.TemplateContext) model.Message {
	expired := tctx.IsExpired()
	t := c.template(tctx.Category, expired)

	name := strings.TrimSpace(tctx.Name)
	if name == "" {
		name = "Student"
	}
	category := tctx.Category
	if category == "" {
		category = "document"
	}

	days := 0
	if tctx.DayDelta != nil {
		days = *tctx.DayDelta
		if days < 0 {
			days = -days
		}
	}

	r := strings.NewReplacer(
		"{name}", name,
		"{category}", category,
		"{days}", strconv.Itoa(days),
		"{remaining}", remaining(days),
		"{signature}", c.Signature,
	)

	return model.Message{
		To:      to,
		Subject: r.Replace(t.Subject),
		Body:    r.Replace(t.Body),
	}
}

func remaining(days int) string {
	if days == 1 {
		return "1 day remaining"
	}
	return strconv.Itoa(days) + " days remaining"
}

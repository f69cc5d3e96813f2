package hatch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/tyler-sommer/stick"
)

// PromptProvider renders asset prompt templates. Templates are twig text
// keyed by asset type; the built-in set can be overridden per tag or
// replaced wholesale from an fs.FS.
type PromptProvider struct {
	env       *stick.Env
	templates map[string]string
	vars      map[string]interface{} // variables available in every template
}

// PromptOption configures a PromptProvider.
type PromptOption func(*PromptProvider) error

// WithTemplateFS loads every *.twig file found under dir in the supplied FS,
// keyed by base filename.
func WithTemplateFS(fsys fs.FS, dir string) PromptOption {
	return func(p *PromptProvider) error {
		return fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".twig") {
				return nil
			}
			content, readErr := fs.ReadFile(fsys, path)
			if readErr != nil {
				return fmt.Errorf("read %s: %w", path, readErr)
			}
			tag := strings.TrimSuffix(filepath.Base(path), ".twig")
			p.templates[tag] = string(content)
			return nil
		})
	}
}

// WithTemplates merges an in-memory template map over the defaults.
func WithTemplates(m map[string]string) PromptOption {
	return func(p *PromptProvider) error {
		for k, v := range m {
			p.templates[k] = v
		}
		return nil
	}
}

// WithPromptVar adds a variable available in all templates.
func WithPromptVar(key string, value interface{}) PromptOption {
	return func(p *PromptProvider) error {
		p.vars[key] = value
		return nil
	}
}

// NewPromptProvider builds a provider preloaded with the default per-type
// templates.
func NewPromptProvider(opts ...PromptOption) (*PromptProvider, error) {
	p := &PromptProvider{
		env:       stick.New(nil),
		templates: make(map[string]string),
		vars:      make(map[string]interface{}),
	}
	for tag, tpl := range defaultTemplates {
		p.templates[tag] = tpl
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// AddTemplate updates or inserts one template.
func (p *PromptProvider) AddTemplate(tag, tpl string) { p.templates[tag] = tpl }

// Render executes the template for the given tag with the supplied
// variables layered over the provider-wide ones.
func (p *PromptProvider) Render(tag string, vars map[string]stick.Value) (string, error) {
	tpl, ok := p.templates[tag]
	if !ok {
		return "", fmt.Errorf("template %q not found", tag)
	}

	templateCtx := make(map[string]stick.Value, len(p.vars)+len(vars))
	for k, v := range p.vars {
		templateCtx[k] = v
	}
	for k, v := range vars {
		templateCtx[k] = v
	}

	var out strings.Builder
	if err := p.env.Execute(tpl, &out, templateCtx); err != nil {
		return "", fmt.Errorf("execute %q: %w", tag, err)
	}
	return out.String(), nil
}

// defaultTemplates holds the built-in prompt template per asset type.
// Optional clauses (sheet, frames, consistency) arrive pre-joined with
// their leading comma so the rendered prompt never has empty segments.
var defaultTemplates = map[string]string{
	string(AssetCharacterSprite): "{{ style }} character sprite of {{ subject }}, {{ pose }}, {{ view }}, {{ palette }}, {{ lighting }}, {{ background }}{{ consistency }}",
	string(AssetSpriteSheet):     "{{ style }} character sprite sheet of {{ subject }}, {{ pose }}{{ sheet }}{{ frames }}, {{ view }}, {{ palette }}, {{ lighting }}, {{ background }}{{ consistency }}",
	string(AssetTileset):         "{{ style }} seamless {{ size }} pixel tile of {{ subject }}, tileable on all edges, {{ view }}, {{ palette }}, {{ lighting }}",
	string(AssetIcon):            "{{ style }} {{ size }} pixel game icon of {{ subject }}, centered, {{ palette }}, {{ lighting }}, {{ background }}",
	string(AssetBackground):      "{{ style }} background scene of {{ subject }}, {{ view }}, {{ palette }}, {{ lighting }}, full-frame composition",
	string(AssetUIElement):       "{{ style }} game UI element, {{ subject }}, clean vector-like edges, {{ palette }}, {{ background }}",
}

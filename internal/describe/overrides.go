package describe

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/benmed00/prmeta/pkg/models"
)

//go:embed overrides.yaml
var defaultOverrides []byte

// OverrideEntry is one entry of an overrides file.
type OverrideEntry struct {
	Numbers  []int  `yaml:"numbers"`
	Template string `yaml:"template"`
}

// Overrides maps PR numbers to hand-authored description templates.
// It is built once at startup and only read afterwards.
type Overrides struct {
	templates map[int]*template.Template
}

// overrideData is what an override template is executed with. Body is the
// author's body with any earlier rendering stripped.
type overrideData struct {
	Number  int
	Title   string
	Body    string
	HasBody bool
}

// BodyOr embeds the body, or def when there is none, so re-runs keep it.
func (d overrideData) BodyOr(def string) string {
	if !d.HasBody {
		return embedBody(def)
	}
	return embedBody(d.Body)
}

// NoOverrides returns an empty override table.
func NoOverrides() *Overrides {
	return &Overrides{templates: map[int]*template.Template{}}
}

// DefaultOverrides returns the built-in override table.
func DefaultOverrides() *Overrides {
	o, err := ParseOverrides(defaultOverrides)
	if err != nil {
		panic(fmt.Sprintf("describe: invalid built-in overrides: %v", err))
	}
	return o
}

// LoadOverrides reads an override table from a YAML file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}
	o, err := ParseOverrides(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overrides %s: %w", path, err)
	}
	return o, nil
}

// ParseOverrides decodes and compiles an override table.
func ParseOverrides(data []byte) (*Overrides, error) {
	var entries []OverrideEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return NewOverrides(entries)
}

// NewOverrides compiles override entries. A PR number may appear only once.
func NewOverrides(entries []OverrideEntry) (*Overrides, error) {
	o := NoOverrides()
	for i, e := range entries {
		if len(e.Numbers) == 0 {
			return nil, fmt.Errorf("override %d: no PR numbers", i)
		}
		tmpl, err := template.New(fmt.Sprintf("override-%d", e.Numbers[0])).Parse(e.Template)
		if err != nil {
			return nil, fmt.Errorf("override %d: %w", i, err)
		}
		for _, n := range e.Numbers {
			if _, dup := o.templates[n]; dup {
				return nil, fmt.Errorf("override %d: PR #%d already has a template", i, n)
			}
			o.templates[n] = tmpl
		}
	}
	return o, nil
}

// Has reports whether the PR has an override template.
func (o *Overrides) Has(number int) bool {
	if o == nil {
		return false
	}
	_, ok := o.templates[number]
	return ok
}

// Numbers returns the PR numbers with overrides, sorted.
func (o *Overrides) Numbers() []int {
	if o == nil {
		return nil
	}
	numbers := make([]int, 0, len(o.templates))
	for n := range o.templates {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// render executes the override for pr. ok is false when there is none.
func (o *Overrides) render(pr models.PullRequestRef) (string, bool, error) {
	if o == nil {
		return "", false, nil
	}
	tmpl, ok := o.templates[pr.Number]
	if !ok {
		return "", false, nil
	}
	body := SourceBody(pr.GetBody())
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, overrideData{
		Number:  pr.Number,
		Title:   pr.Title,
		Body:    body,
		HasBody: body != "",
	})
	if err != nil {
		return "", true, err
	}
	return buf.String(), true, nil
}

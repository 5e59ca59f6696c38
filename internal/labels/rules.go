// Package labels derives type, priority and module labels from a PR title.
package labels

import "github.com/benmed00/prmeta/pkg/models"

// ModuleRule assigns Module when the title contains any of Keywords, or all
// of the words of any entry in AllOf.
type ModuleRule struct {
	Module   string     `yaml:"module"`
	Keywords []string   `yaml:"keywords"`
	AllOf    [][]string `yaml:"all_of,omitempty"`
}

// Rules is the rule table of the engine. Keywords are lower case.
type Rules struct {
	// PR numbers that are always low priority.
	LowPriorityPRs []int `yaml:"low_priority_prs"`

	HighPriorityKeywords []string `yaml:"high_priority_keywords"`
	LowPriorityKeywords  []string `yaml:"low_priority_keywords"`

	// MajorBumpIsHigh raises priority to High when the title parses as a
	// bump whose magnitude is Major, even without a keyword.
	MajorBumpIsHigh bool `yaml:"major_bump_is_high"`

	// Evaluated in order, first match wins.
	Modules       []ModuleRule `yaml:"modules"`
	DefaultModule string       `yaml:"default_module"`
}

// DefaultRules returns the repository's standard rule table.
func DefaultRules() Rules {
	return Rules{
		LowPriorityPRs:       []int{85, 86},
		HighPriorityKeywords: []string{"major", "breaking", "security"},
		LowPriorityKeywords:  []string{"minor", "patch"},
		MajorBumpIsHigh:      true,
		Modules: []ModuleRule{
			{Module: models.ModuleCI, Keywords: []string{"action", "workflow"}, AllOf: [][]string{{"ci", "fix"}}},
			{Module: models.ModuleFrontend, Keywords: []string{"node", "types/node"}},
			{Module: models.ModuleSecurity, Keywords: []string{"bcrypt", "security"}},
			{Module: models.ModuleFrontend, Keywords: []string{"tailwind", "lucide", "react"}},
			{Module: models.ModuleCore, Keywords: []string{"date", "fns"}},
			{Module: models.ModuleCore, Keywords: []string{"gitignore"}},
			{Module: models.ModuleSecurity, Keywords: []string{"codeql"}},
		},
		DefaultModule: models.ModuleCore,
	}
}

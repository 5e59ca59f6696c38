package bump

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benmed00/prmeta/pkg/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected models.DependencyBump
		ok       bool
	}{
		{
			name:     "conventional deps title",
			title:    "chore(deps): bump lodash from 4.17.20 to 4.17.21",
			expected: models.DependencyBump{Package: "lodash", OldVersion: "4.17.20", NewVersion: "4.17.21"},
			ok:       true,
		},
		{
			name:     "dev dependency with scope",
			title:    "chore(deps-dev): bump @types/node from 20.11.0 to 25.0.3",
			expected: models.DependencyBump{Package: "@types/node", OldVersion: "20.11.0", NewVersion: "25.0.3"},
			ok:       true,
		},
		{
			name:     "github action pin",
			title:    "chore(deps): bump actions/checkout from 4 to 6",
			expected: models.DependencyBump{Package: "actions/checkout", OldVersion: "4", NewVersion: "6"},
			ok:       true,
		},
		{
			name:     "capitalized Bumps",
			title:    "Bumps date-fns from 3.6.0 to 4.1.0.",
			expected: models.DependencyBump{Package: "date-fns", OldVersion: "3.6.0", NewVersion: "4.1.0"},
			ok:       true,
		},
		{
			name:     "directory suffix is ignored",
			title:    "Bump next from 16.0.0 to 16.1.1 in /web",
			expected: models.DependencyBump{Package: "next", OldVersion: "16.0.0", NewVersion: "16.1.1"},
			ok:       true,
		},
		{
			name:  "compound bump uses the fixed pair",
			title: "chore(deps): bump bcryptjs and @types/bcryptjs",
			expected: models.DependencyBump{
				Package:    "bcryptjs and @types/bcryptjs",
				OldVersion: CompoundOldVersion,
				NewVersion: CompoundNewVersion,
				Compound:   true,
			},
			ok: true,
		},
		{
			name:  "not a bump",
			title: "Review Cursor Cloud Agent Changes",
			ok:    false,
		},
		{
			name:  "bump without versions",
			title: "bump everything",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.title)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsDependencyTitle(t *testing.T) {
	assert.True(t, IsDependencyTitle("chore(deps): Bump x from 1 to 2"))
	assert.False(t, IsDependencyTitle("fix: Invalid action input 'sha'"))
}

// Package compat holds the editable table of compatibility notes attached to
// known package/version pairs.
package compat

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

// ErrEmptyKnowledgeBase is returned when a knowledge base file holds no entries.
var ErrEmptyKnowledgeBase = errors.New("knowledge base has no entries")

// VersionNote is a note for one version of a package.
type VersionNote struct {
	Version string `yaml:"version"`
	Note    string `yaml:"note"`
}

// Entry groups the notes of one package. Package is matched by substring.
type Entry struct {
	Package string        `yaml:"package"`
	Notes   []VersionNote `yaml:"notes"`
}

// KnowledgeBase is an ordered list of entries. It is loaded once and never
// mutated afterwards, so it is safe to share.
type KnowledgeBase struct {
	entries []Entry
}

// New builds a knowledge base from entries in declaration order.
func New(entries []Entry) *KnowledgeBase {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &KnowledgeBase{entries: cp}
}

// Default returns the built-in knowledge base.
func Default() *KnowledgeBase {
	kb, err := Parse(defaultKnowledge)
	if err != nil {
		panic(fmt.Sprintf("compat: invalid built-in knowledge base: %v", err))
	}
	return kb
}

// Load reads a knowledge base from a YAML file.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	kb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base %s: %w", path, err)
	}
	return kb, nil
}

// Parse decodes a YAML sequence of entries.
func Parse(data []byte) (*KnowledgeBase, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyKnowledgeBase
	}
	for i, e := range entries {
		if e.Package == "" {
			return nil, fmt.Errorf("entry %d: package is required", i)
		}
	}
	return New(entries), nil
}

// Lookup returns the note for a package/version pair.
//
// The first entry whose Package is contained in pkg is the only candidate,
// even when it has no note for the version. Within it, the first note whose
// Version equals or is contained in version wins.
func (kb *KnowledgeBase) Lookup(pkg, version string) (string, bool) {
	if kb == nil {
		return "", false
	}
	for _, e := range kb.entries {
		if !strings.Contains(pkg, e.Package) {
			continue
		}
		for _, n := range e.Notes {
			if n.Version == version || strings.Contains(version, n.Version) {
				return n.Note, true
			}
		}
		return "", false
	}
	return "", false
}

// Len returns the number of entries.
func (kb *KnowledgeBase) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.entries)
}

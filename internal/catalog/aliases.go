// Package catalog resolves the many URL spellings of a service to its canonical slug.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"tourism_booking/internal/i18n"
)

//go:embed aliases.yaml
var aliasesYAML []byte

type Entry struct {
	Canonical string            `yaml:"canonical"`
	AdminKey  string            `yaml:"admin_key"`
	Paths     map[string]string `yaml:"paths"`
	Aliases   []string          `yaml:"aliases"`
}

type Table struct {
	entries []Entry
	index   map[string]int // any spelling -> entries index
}

// Default is the table compiled into the binary.
var Default = mustParse(aliasesYAML)

func mustParse(b []byte) *Table {
	t, err := Parse(b)
	if err != nil {
		panic(err)
	}
	return t
}

func Parse(b []byte) (*Table, error) {
	var doc struct {
		Services []Entry `yaml:"services"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}
	t := &Table{entries: doc.Services, index: make(map[string]int)}
	for i, e := range doc.Services {
		if e.Canonical == "" {
			return nil, fmt.Errorf("aliases: entry %d has no canonical slug", i)
		}
		keys := append([]string{e.Canonical, e.AdminKey}, e.Aliases...)
		for _, p := range e.Paths {
			keys = append(keys, p)
		}
		for _, k := range keys {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			if j, dup := t.index[k]; dup && j != i {
				return nil, fmt.Errorf("aliases: %q maps to both %s and %s", k, doc.Services[j].Canonical, e.Canonical)
			}
			t.index[k] = i
		}
	}
	return t, nil
}

// Canonical maps any known spelling (canonical, admin key, localized path, legacy alias).
func (t *Table) Canonical(slug string) (string, bool) {
	i, ok := t.index[strings.ToLower(strings.Trim(slug, "/ "))]
	if !ok {
		return "", false
	}
	return t.entries[i].Canonical, true
}

func (t *Table) Entry(slug string) (Entry, bool) {
	i, ok := t.index[strings.ToLower(strings.Trim(slug, "/ "))]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// PathFor returns the URL segment used for canonical in locale.
func (t *Table) PathFor(canonical, locale string) string {
	e, ok := t.Entry(canonical)
	if !ok {
		return canonical
	}
	if p := e.Paths[locale]; p != "" {
		return p
	}
	if p := e.Paths[i18n.Default]; p != "" {
		return p
	}
	return e.Canonical
}

func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

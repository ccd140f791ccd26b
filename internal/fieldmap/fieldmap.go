// Package fieldmap models the user-authored field map document: which
// source table feeds which destination table, and which source field
// feeds which destination field. Parsing validates the whole document and
// reports every problem found, not just the first.
package fieldmap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"sigs.k8s.io/yaml"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
)

// Document is a validated field map: one entry per source base, tables in
// document order.
type Document struct {
	Bases []BaseMapping `json:"bases"`
}

// BaseMapping maps the tables of one source base.
type BaseMapping struct {
	BaseID string         `json:"base_id"`
	Tables []TableMapping `json:"tables"`
}

// TableMapping maps one source table onto one destination table. Fields
// keep document order; every destination field id appears at most once.
type TableMapping struct {
	SourceTable      string         `json:"source_table"`
	DestinationTable int            `json:"destination_table"`
	Fields           []FieldMapping `json:"fields"`

	// Skipped lists destination fields the template generator left out
	// because they are read-only. Informational only; ignored on import.
	Skipped []string `json:"skipped,omitempty"`
}

// Name renders the mapping as "sourceTable -> destTable" for error and
// log context.
func (t TableMapping) Name() string {
	return fmt.Sprintf("%s -> %d", t.SourceTable, t.DestinationTable)
}

// FieldMapping maps one source field (by id or name) onto one destination
// field id. Link marks the destination as a link-to-table field, resolved
// in the orchestrator's second pass instead of the conversion registry.
type FieldMapping struct {
	Source      string `json:"source"`
	Destination int    `json:"destination"`
	Link        bool   `json:"link,omitempty"`
}

// Raw shapes mirror Document with unparsed leaves so that a wrong-typed
// identifier is reported as a problem instead of failing the whole decode
// with a single opaque error.
type rawDocument struct {
	Bases []rawBase `json:"bases"`
}

type rawBase struct {
	BaseID json.RawMessage `json:"base_id"`
	Tables []rawTable      `json:"tables"`
}

type rawTable struct {
	SourceTable      json.RawMessage `json:"source_table"`
	DestinationTable json.RawMessage `json:"destination_table"`
	Fields           []rawField      `json:"fields"`
	Skipped          []string        `json:"skipped"`
}

type rawField struct {
	Source      json.RawMessage `json:"source"`
	Destination json.RawMessage `json:"destination"`
	Link        bool            `json:"link"`
}

// Load reads and parses a field map file. Files ending in .yaml or .yml
// are converted through sigs.k8s.io/yaml first; everything else is
// treated as JSON.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field map: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse field map yaml: %w", err)
		}
	}

	return Parse(data)
}

// Parse decodes and validates a field map document. On failure it returns
// a *domain.MappingError enumerating every problem found.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse field map: %w", err)
	}

	merr := &domain.MappingError{}

	if len(raw.Bases) == 0 {
		merr.Addf("", "document maps no bases")
		return nil, merr
	}

	doc := &Document{Bases: make([]BaseMapping, 0, len(raw.Bases))}
	for bi, rb := range raw.Bases {
		base := BaseMapping{}

		baseID, ok := asString(rb.BaseID)
		if !ok || baseID == "" {
			merr.Addf("", "base %d: base_id must be a non-empty string, got %s", bi, rawValue(rb.BaseID))
		}
		base.BaseID = baseID

		if len(rb.Tables) == 0 {
			merr.Addf("", "base %q maps no tables", baseID)
		}

		for ti, rt := range rb.Tables {
			tm, tmErrs := parseTable(rt, ti)
			for _, err := range tmErrs {
				merr.Add(tm.Name(), err)
			}
			base.Tables = append(base.Tables, tm)
		}

		doc.Bases = append(doc.Bases, base)
	}

	if err := merr.OrNil(); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseTable(rt rawTable, index int) (TableMapping, []error) {
	var errs []error
	tm := TableMapping{Skipped: rt.Skipped}

	src, ok := asString(rt.SourceTable)
	if !ok || src == "" {
		errs = append(errs, fmt.Errorf("table %d: source_table must be a non-empty string, got %s", index, rawValue(rt.SourceTable)))
	}
	tm.SourceTable = src

	dst, ok := asInt(rt.DestinationTable)
	if !ok || dst <= 0 {
		errs = append(errs, fmt.Errorf("table %d: destination_table must be a positive integer, got %s", index, rawValue(rt.DestinationTable)))
	}
	tm.DestinationTable = dst

	if len(rt.Fields) == 0 {
		errs = append(errs, fmt.Errorf("no fields mapped"))
	}

	// Destination field id -> source fields targeting it, for the
	// duplicate-target invariant. The error names every source involved.
	targets := make(map[int][]string)

	for fi, rf := range rt.Fields {
		fm := FieldMapping{Link: rf.Link}

		fsrc, ok := asString(rf.Source)
		if !ok {
			errs = append(errs, fmt.Errorf("field %d: source must be a string field id or name, got %s", fi, rawValue(rf.Source)))
		} else if fsrc == "" {
			errs = append(errs, fmt.Errorf("field %d: source is blank (fill in the template slot)", fi))
		}
		fm.Source = fsrc

		fdst, ok := asInt(rf.Destination)
		if !ok || fdst <= 0 {
			errs = append(errs, fmt.Errorf("field %q: destination must be a positive integer field id, got %s", fsrc, rawValue(rf.Destination)))
		} else {
			targets[fdst] = append(targets[fdst], fsrc)
		}
		fm.Destination = fdst

		tm.Fields = append(tm.Fields, fm)
	}

	dupes := make([]int, 0)
	for id, sources := range targets {
		if len(sources) > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Ints(dupes)
	for _, id := range dupes {
		errs = append(errs, fmt.Errorf("destination field %d is targeted by multiple source fields: %s",
			id, strings.Join(targets[id], ", ")))
	}

	return tm, errs
}

// asString decodes a raw leaf as a JSON string. A non-string value is
// reported by the caller, never coerced.
func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := sonic.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// asInt decodes a raw leaf as a JSON integer. Strings and fractional
// numbers are rejected.
func asInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n int
	if err := sonic.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

func rawValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "nothing"
	}
	return string(raw)
}

// LinkFields returns the mappings flagged as link fields, in order.
func (t TableMapping) LinkFields() []FieldMapping {
	var out []FieldMapping
	for _, f := range t.Fields {
		if f.Link {
			out = append(out, f)
		}
	}
	return out
}

// ValueFields returns the non-link mappings, in order.
func (t TableMapping) ValueFields() []FieldMapping {
	var out []FieldMapping
	for _, f := range t.Fields {
		if !f.Link {
			out = append(out, f)
		}
	}
	return out
}

package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// HighConfidenceThreshold is the confidence at or above which an item counts as high confidence.
const HighConfidenceThreshold = 0.8

// CodeSpan is a 1-indexed inclusive line range. Columns are reserved and always zero.
type CodeSpan struct {
	Start    uint32 `json:"start" toon:"start"`
	End      uint32 `json:"end" toon:"end"`
	ColStart uint32 `json:"col_start" toon:"col_start"`
	ColEnd   uint32 `json:"col_end" toon:"col_end"`
}

// NewSpan returns a span covering lines start through end.
func NewSpan(start, end uint32) CodeSpan {
	if end < start {
		end = start
	}
	return CodeSpan{Start: start, End: end}
}

// Lines returns the number of lines covered by the span.
func (s CodeSpan) Lines() int {
	return int(s.End-s.Start) + 1
}

// DeadCodeKind classifies a dead code finding.
type DeadCodeKind string

const (
	KindUnusedExport        DeadCodeKind = "unused_export"
	KindUnreachableFunction DeadCodeKind = "unreachable_function"
	KindUnusedVariable      DeadCodeKind = "unused_variable"
	KindUnusedImport        DeadCodeKind = "unused_import"
	KindZombieFile          DeadCodeKind = "zombie_file"
	KindUnusedType          DeadCodeKind = "unused_type"
	KindUnusedClass         DeadCodeKind = "unused_class"
	KindUnusedEnum          DeadCodeKind = "unused_enum"
	KindDeadBranch          DeadCodeKind = "dead_branch"
)

// AllDeadCodeKinds lists every kind in schema order.
var AllDeadCodeKinds = []DeadCodeKind{
	KindUnusedExport,
	KindUnreachableFunction,
	KindUnusedVariable,
	KindUnusedImport,
	KindZombieFile,
	KindUnusedType,
	KindUnusedClass,
	KindUnusedEnum,
	KindDeadBranch,
}

// Valid reports whether k is a known kind.
func (k DeadCodeKind) Valid() bool {
	for _, known := range AllDeadCodeKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Label returns a human readable label for the kind.
func (k DeadCodeKind) Label() string {
	switch k {
	case KindUnusedExport:
		return "Unused Exports"
	case KindUnreachableFunction:
		return "Unreachable Functions"
	case KindUnusedVariable:
		return "Unused Variables"
	case KindUnusedImport:
		return "Unused Imports"
	case KindZombieFile:
		return "Zombie Files"
	case KindUnusedType:
		return "Unused Types"
	case KindUnusedClass:
		return "Unused Classes"
	case KindUnusedEnum:
		return "Unused Enums"
	case KindDeadBranch:
		return "Dead Branches"
	default:
		return string(k)
	}
}

// UnmarshalJSON rejects unknown kinds.
func (k *DeadCodeKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind := DeadCodeKind(s)
	if !kind.Valid() {
		return fmt.Errorf("unknown dead code kind %q", s)
	}
	*k = kind
	return nil
}

// DeadCodeContext carries the signals that shaped a finding's confidence.
type DeadCodeContext struct {
	PossiblyDynamic   bool     `json:"possibly_dynamic" toon:"possibly_dynamic"`
	InTestFile        bool     `json:"in_test_file" toon:"in_test_file"`
	PublicAPI         bool     `json:"public_api" toon:"public_api"`
	// PartialReferences lists the root-relative files that import the
	// finding's module without using the finding itself.
	PartialReferences []string `json:"partial_references" toon:"partial_references"`
	DocComment        string   `json:"doc_comment,omitempty" toon:"doc_comment,omitempty"`
}

// MarshalJSON writes a nil PartialReferences as an empty array.
func (c DeadCodeContext) MarshalJSON() ([]byte, error) {
	type plain DeadCodeContext
	if c.PartialReferences == nil {
		c.PartialReferences = []string{}
	}
	return json.Marshal(plain(c))
}

// DeadCodeItem is a single finding.
type DeadCodeItem struct {
	FilePath     string           `json:"file_path" toon:"file_path"`
	RelativePath string           `json:"relative_path" toon:"relative_path"`
	Span         CodeSpan         `json:"span" toon:"span"`
	CodeSnippet  string           `json:"code_snippet" toon:"code_snippet"`
	Kind         DeadCodeKind     `json:"kind" toon:"kind"`
	Name         string           `json:"name" toon:"name"`
	Reason       string           `json:"reason" toon:"reason"`
	Confidence   float64          `json:"confidence" toon:"confidence"`
	Context      *DeadCodeContext `json:"context,omitempty" toon:"context,omitempty"`
}

// IsHighConfidence reports whether the item meets HighConfidenceThreshold.
func (i DeadCodeItem) IsHighConfidence() bool {
	return i.Confidence >= HighConfidenceThreshold
}

// ScanSummary aggregates findings by category and confidence.
type ScanSummary struct {
	UnusedExports        int `json:"unused_exports" toon:"unused_exports"`
	UnreachableFunctions int `json:"unreachable_functions" toon:"unreachable_functions"`
	UnusedVariables      int `json:"unused_variables" toon:"unused_variables"`
	UnusedImports        int `json:"unused_imports" toon:"unused_imports"`
	ZombieFiles          int `json:"zombie_files" toon:"zombie_files"`
	UnusedTypes          int `json:"unused_types" toon:"unused_types"`
	TotalIssues          int `json:"total_issues" toon:"total_issues"`
	HighConfidenceIssues int `json:"high_confidence_issues" toon:"high_confidence_issues"`
	LowConfidenceIssues  int `json:"low_confidence_issues" toon:"low_confidence_issues"`
}

// Add folds one item into the summary.
func (s *ScanSummary) Add(item DeadCodeItem) {
	s.TotalIssues++
	if item.IsHighConfidence() {
		s.HighConfidenceIssues++
	} else {
		s.LowConfidenceIssues++
	}

	switch item.Kind {
	case KindUnusedExport:
		s.UnusedExports++
	case KindUnreachableFunction:
		s.UnreachableFunctions++
	case KindUnusedVariable:
		s.UnusedVariables++
	case KindUnusedImport:
		s.UnusedImports++
	case KindZombieFile:
		s.ZombieFiles++
	case KindUnusedType, KindUnusedClass, KindUnusedEnum:
		s.UnusedTypes++
	}
}

// Summarize builds a summary from a list of items.
func Summarize(items []DeadCodeItem) ScanSummary {
	var s ScanSummary
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// ScanOutput is the complete result of one scan.
type ScanOutput struct {
	Version           string         `json:"version" toon:"version"`
	Root              string         `json:"root" toon:"root"`
	Timestamp         string         `json:"timestamp" toon:"timestamp"`
	DeadCode          []DeadCodeItem `json:"dead_code" toon:"dead_code"`
	TotalFilesScanned int            `json:"total_files_scanned" toon:"total_files_scanned"`
	TotalLines        int            `json:"total_lines" toon:"total_lines"`
	ScanDuration      int64          `json:"scan_duration" toon:"scan_duration"`
	Summary           ScanSummary    `json:"summary" toon:"summary"`
}

// Filter returns a copy holding only items with confidence >= threshold.
// The summary is rebuilt from the retained items.
func (o *ScanOutput) Filter(threshold float64) *ScanOutput {
	out := *o
	out.DeadCode = make([]DeadCodeItem, 0, len(o.DeadCode))
	for _, item := range o.DeadCode {
		if item.Confidence >= threshold {
			out.DeadCode = append(out.DeadCode, item)
		}
	}
	out.Summary = Summarize(out.DeadCode)
	return &out
}

// ByKind groups items by kind, preserving order within each group.
func (o *ScanOutput) ByKind() map[DeadCodeKind][]DeadCodeItem {
	groups := make(map[DeadCodeKind][]DeadCodeItem)
	for _, item := range o.DeadCode {
		groups[item.Kind] = append(groups[item.Kind], item)
	}
	return groups
}

// SortedForFix returns items grouped by file with start lines descending,
// so that editing one span never shifts the lines of a later one.
func (o *ScanOutput) SortedForFix() []DeadCodeItem {
	items := make([]DeadCodeItem, len(o.DeadCode))
	copy(items, o.DeadCode)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].FilePath != items[j].FilePath {
			return items[i].FilePath < items[j].FilePath
		}
		return items[i].Span.Start > items[j].Span.Start
	})
	return items
}

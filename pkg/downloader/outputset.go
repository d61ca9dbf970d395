package downloader

import "github.com/andrew-pyle/chronam/internal/assembler"

// AssembledIssue is one downloaded issue ready for persistence: the output
// key (the issue date, possibly edition-suffixed), the concatenated page
// text, and the per-page fetch diagnostics.
type AssembledIssue struct {
	Key         string
	Date        string
	URL         string
	Text        string
	Diagnostics assembler.Diagnostics
}

// OutputSet maps output keys to assembled issues. Keys are unique by
// construction (the edition disambiguator enforces it); insertion order
// follows traversal order. The set is built once per run and discarded
// after persistence.
type OutputSet struct {
	// LCCN identifies the newspaper the set was downloaded from
	LCCN string

	issues []AssembledIssue
	index  map[string]int
}

// NewOutputSet creates an empty output set for the given newspaper
func NewOutputSet(lccn string) *OutputSet {
	return &OutputSet{
		LCCN:  lccn,
		index: make(map[string]int),
	}
}

// Add inserts an assembled issue under its key. A repeated key replaces the
// earlier entry in place; the disambiguator only produces a repeat when a
// third issue shares a date.
func (s *OutputSet) Add(issue AssembledIssue) {
	if i, ok := s.index[issue.Key]; ok {
		s.issues[i] = issue
		return
	}
	s.index[issue.Key] = len(s.issues)
	s.issues = append(s.issues, issue)
}

// Get returns the issue stored under key
func (s *OutputSet) Get(key string) (AssembledIssue, bool) {
	i, ok := s.index[key]
	if !ok {
		return AssembledIssue{}, false
	}
	return s.issues[i], true
}

// Keys returns the output keys in traversal order
func (s *OutputSet) Keys() []string {
	keys := make([]string, len(s.issues))
	for i, issue := range s.issues {
		keys[i] = issue.Key
	}
	return keys
}

// All returns the assembled issues in traversal order
func (s *OutputSet) All() []AssembledIssue {
	return s.issues
}

// Len returns the number of assembled issues in the set
func (s *OutputSet) Len() int {
	return len(s.issues)
}

// PageFailures totals the missing and failed pages across all issues, for
// end-of-run reporting.
func (s *OutputSet) PageFailures() (missing, failed int) {
	for _, issue := range s.issues {
		missing += len(issue.Diagnostics.Missing)
		failed += len(issue.Diagnostics.Failed)
	}
	return missing, failed
}

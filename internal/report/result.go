package report

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dirsort/internal/category"
)

// Key names one of the two extension sets. The spelling matches the summary
// format users already parse.
type Key string

const (
	KnownExtensions   Key = "known_extentions"
	UnknownExtensions Key = "unknown_extentions"
)

// Keys lists the result keys in render order.
var Keys = []Key{KnownExtensions, UnknownExtensions}

// NoChangesMessage is rendered when nothing was moved.
const NoChangesMessage = "No changes were made!"

// noExtension stands in for files without a suffix.
const noExtension = "(none)"

// Result is a concurrency-safe set of extensions per key.
type Result struct {
	mu   sync.Mutex
	sets map[Key]map[string]struct{}
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{sets: make(map[Key]map[string]struct{}, len(Keys))}
}

// Record adds ext (with or without the leading dot) under key. Extensions are
// stored lower-cased so "JPG" and "jpg" collapse.
func (r *Result) Record(key Key, ext string) {
	value := cases.Lower(language.Und).String(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if value == "" {
		value = noExtension
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[key]
	if !ok {
		set = make(map[string]struct{})
		r.sets[key] = set
	}
	set[value] = struct{}{}
}

// RecordMove files ext under the unknown key for Other and under the known
// key for every other category.
func (r *Result) RecordMove(cat category.Category, ext string) {
	if cat == category.Other {
		r.Record(UnknownExtensions, ext)
		return
	}
	r.Record(KnownExtensions, ext)
}

// Extensions returns the sorted distinct extensions recorded under key.
func (r *Result) Extensions(key Key) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.sets[key]
	out := make([]string, 0, len(set))
	for ext := range set {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether nothing has been recorded.
func (r *Result) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, set := range r.sets {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

// Package collation orders display strings the way an English-locale UI does.
package collation

import (
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collate.Collator keeps internal buffers and must not be shared between goroutines.
var pool = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// Compare returns -1, 0 or 1. The default tertiary strength keeps case
// significant, so "apple" and "Apple" never compare equal.
func Compare(a, b string) int {
	c := pool.Get().(*collate.Collator)
	defer pool.Put(c)
	return c.CompareString(a, b)
}

// Sort orders values in place, ascending or descending.
func Sort(values []string, descending bool) {
	slices.SortStableFunc(values, func(a, b string) int {
		if descending {
			return Compare(b, a)
		}
		return Compare(a, b)
	})
}

// Package render formats sequences for the program's console output.
package render

import (
	"fmt"
	"iter"
)

// List joins the textual form of items with sep, placing exactly one sep
// between adjacent elements and none at either end. It is a recursive
// head/tail formatter on purpose: the separator placement at the
// empty/single/multi boundaries is the behavior under test, so it is not
// delegated to a join helper.
func List[T any](items []T, sep string) string {
	if len(items) == 0 {
		return ""
	}
	head := fmt.Sprint(items[0])
	if len(items) == 1 {
		return head
	}
	return head + sep + List(items[1:], sep)
}

// Tokens returns the finite, restartable sequence of textual tokens that
// List joins. Each iteration walks items from the start.
func Tokens[T any](items []T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, it := range items {
			if !yield(fmt.Sprint(it)) {
				return
			}
		}
	}
}

// Package textutil provides ordered rewrite pipelines for transcript text.
//
// A Pipeline is a list of (pattern, replacement) rules applied one after
// another. Rules are never merged into a single alternation: later rules see
// the output of earlier ones, and several transcript tiers depend on that
// ordering (labels must be stripped before bare colons, ampersand codes
// before digit runs).
package textutil

// Package fileutil provides all-or-nothing output writes and the run lock
// that keeps concurrent runs out of one output directory.
package fileutil

// Package neighborhood matches comment text against a table of canonical
// neighborhood names and their aliases.
//
// Matching is case-insensitive and anchored on word boundaries, so "soma"
// does not fire inside "awesome". The table is a value passed to callers
// rather than package state; [DefaultTable] returns the built-in westside
// table and configuration may supply another.
package neighborhood

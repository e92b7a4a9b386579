// Package history records completed pipeline runs in a SQLite database so
// earlier analyses can be listed and compared without rerunning them.
package history

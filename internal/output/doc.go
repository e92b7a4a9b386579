// Package output formats the final neighborhood report for display or
// machine consumption.
//
// Three formats are supported:
//   - text: human-readable terminal output (default)
//   - json: the full structured report
//   - markdown: a ranking table plus collapsible pros/cons per neighborhood
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*report.Report]. [WriteReport]
// handles choosing between a file and stdout.
package output

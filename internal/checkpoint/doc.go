// Package checkpoint persists the intermediate result of every pipeline
// stage as a JSON file.
//
// Artifacts are two-space indented UTF-8 with no ASCII or HTML escaping, and
// each is replaced atomically. They exist for inspection; no stage reads a
// previous stage's artifact back.
package checkpoint

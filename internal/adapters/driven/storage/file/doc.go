// Package file provides filesystem implementations of the storage ports.
//
// Layout under a build root:
//
//	<root>/versions.json                 version stamps per collection
//	<root>/standalone/<page>.json        rendered standalone pages
//	<root>/<collection>/<name>.json      collection manifest
//	<root>/<collection>/<id>.<ext>       body artifacts
//
// Whole-file writes go through a temporary file and a rename so a failed
// write never leaves a truncated manifest behind.
package file

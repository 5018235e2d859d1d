// Package formatter writes the JPSvis output documents.
//
// This package is organized into:
// - trajectory.go: trajectory text file (commented header, tab-separated rows)
// - xml.go: geometry.xml serialization with etree
//
// Writers take an io.Writer so callers decide where the bytes go.
package formatter

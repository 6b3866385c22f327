// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains shared utilities (slugs, HTML sanitizing, JSON output) and
// the image store that writes uploaded meal images to disk.
package lib

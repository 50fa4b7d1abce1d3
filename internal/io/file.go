// Package ioutils provides file system utilities for the download pipeline.
//
// This package contains functions for:
//   - Filename sanitization
//   - Temporary working-file naming
//   - Directory creation
package ioutils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// maxFileNameLen bounds the base name (without extension) of a delivered
// file so the full path stays within file system limits.
const maxFileNameLen = 100

var (
	// Invalid path/file characters: < > : " / \ | ? * and control
	// characters (0x00-0x1f). Windows has the most restrictive rules.
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

	multiSpace = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Leading and trailing dots and whitespace → removed
//   - Multiple whitespace → single space
//   - Names longer than 100 characters → truncated
//
// Example:
//
//	SanitizeFileName("Song: Title? <Live>") // Returns "Song_ Title_ _Live_"
//	SanitizeFileName("...Track...")         // Returns "Track"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.Trim(name, ". ")
	if len(name) > maxFileNameLen {
		name = strings.TrimRight(name[:maxFileNameLen], ". ")
	}
	return name
}

// TempFilePath returns a collision-free working-file path inside dir with
// the given extension.
//
// The name embeds a fresh UUID so concurrent downloads of the same track
// never share working files.
//
// Example:
//
//	src := ioutils.TempFilePath("/tmp", ".m4a")
//	// "/tmp/3b1f8a6e-....m4a"
func TempFilePath(dir, ext string) string {
	return filepath.Join(dir, uuid.NewString()+ext)
}

// EnsureDir creates a directory and all parent directories if they don't
// exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

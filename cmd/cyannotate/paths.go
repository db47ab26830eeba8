package main

import (
	"path/filepath"
	"strings"
)

// absLocation makes a local path absolute for afs; URLs pass through.
func absLocation(p string) string {
	if strings.Contains(p, "://") {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

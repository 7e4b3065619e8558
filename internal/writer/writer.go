// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package writer publishes output documents atomically: every write goes
// through a temporary file in the destination's own directory and is
// renamed into place only after the write fully succeeded. A failed or
// cancelled write leaves no partial artifact and never touches a
// pre-existing destination. Implements: prd005-output-integrity (R1-R5);
//
//	docs/ARCHITECTURE § Output Integrity.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdiddy/document-engine/pkg/types"
)

// tmpPattern keeps in-flight files hidden and recognizable. The temp file
// lives in the destination directory so the final rename stays on one
// filesystem (R1.1).
const tmpPattern = ".docengine-*.tmp"

// renameFile is swapped in tests to inject publish failures.
var renameFile = os.Rename

// CheckWritable probes dir for write access by creating and removing a
// temporary file. It runs before any page work so a bad destination costs
// nothing (R4.1).
func CheckWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return types.NewPermissionError(dir, err)
	}
	if !info.IsDir() {
		return types.NewPermissionError(dir, fmt.Errorf("not a directory"))
	}
	probe, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return types.NewPermissionError(dir, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}

// Publish writes through a temporary file next to dest and renames it into
// place only after write returned nil. On any error the temp file is
// removed and dest is left untouched (R2.1-R3.2). Errors from write pass
// through unchanged so cancellation and taxonomy kinds survive.
func Publish(dest string, write func(tmpPath string) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(dest), tmpPattern)
	if err != nil {
		return types.NewPermissionError(filepath.Dir(dest), err)
	}
	tmpPath := tmpFile.Name()
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return types.NewIOError(tmpPath, err)
	}

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := renameFile(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return types.NewIOError(dest, err)
	}
	return nil
}

// claims tracks destinations with an in-flight temp write. Two operations
// never write the same destination concurrently (R5.1).
var (
	claimsMu sync.Mutex
	claims   = make(map[string]struct{})
)

// Claim reserves dest for one in-flight write, failing fast when another
// operation already targets it.
func Claim(dest string) error {
	key := claimKey(dest)
	claimsMu.Lock()
	defer claimsMu.Unlock()
	if _, held := claims[key]; held {
		return types.NewValidationError(dest, "another operation is already writing this destination")
	}
	claims[key] = struct{}{}
	return nil
}

// Release frees a claim taken with Claim. Releasing an unclaimed
// destination is a no-op.
func Release(dest string) {
	key := claimKey(dest)
	claimsMu.Lock()
	defer claimsMu.Unlock()
	delete(claims, key)
}

// claimKey normalizes a destination so differently spelled paths to the
// same file collide.
func claimKey(dest string) string {
	if abs, err := filepath.Abs(dest); err == nil {
		return abs
	}
	return filepath.Clean(dest)
}

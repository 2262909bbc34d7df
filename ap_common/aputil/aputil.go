/*
 * Copyright 2020 Brightgate Inc.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at https://mozilla.org/MPL/2.0/.
 */


package aputil

import (
	"os"
	"path/filepath"
)

// FileExists checks to see if a file exists in the filesystem
func FileExists(filename string) bool {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return false
	}
	return true
}

// ExpandDirPath resolves a path relative to APROOT, if set.  Paths that are
// already absolute come back unchanged.
func ExpandDirPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	root := os.Getenv("APROOT")
	if root == "" {
		return path
	}
	return filepath.Join(root, path)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package main

import "syscall"

// freeDiskSpace reports the bytes available to the current user under path.
func freeDiskSpace(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, err
	}
	// Bavail excludes blocks reserved for root, which is what a model
	// download can actually use.
	return stat.Bavail * uint64(stat.Bsize), nil
}

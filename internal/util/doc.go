// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the senti packages.
//
// String Utilities:
//   - TruncateWidth, StringWidth, PadRight: terminal-column aware layout
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - SingleLine: collapse multi-line input for one-row display
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	echo := util.TruncateWidth(util.SingleLine(text), 60)
//	err := util.AtomicWriteFile(path, data, 0600, 0755)
package util

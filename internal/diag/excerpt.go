// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diag

import "strings"

// lineExcerpt renders the single source line containing byte offset
// start, followed by a caret-underline beneath the [start,end) range
// (clamped to that line).
func lineExcerpt(text string, start, end int) string {
	if start < 0 || start > len(text) {
		return ""
	}
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
		lineEnd = start + i
	}
	line := text[lineStart:lineEnd]

	col := start - lineStart
	width := end - start
	if width < 1 {
		width = 1
	}
	if col+width > len(line) {
		width = len(line) - col
		if width < 1 {
			width = 1
		}
	}
	underline := strings.Repeat(" ", col) + strings.Repeat("^", width)
	return line + "\n" + underline
}

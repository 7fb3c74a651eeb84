package translator

import "strings"

// segment is the text span of one block inside a script
type segment struct {
	index     int
	firstLine int // 1-based
	lines     []string
}

// splitSegments separates the script header from the block segments.
//
// A boundary is a Show/Hide line, a disabled block start marker, any
// statement before the first boundary, or a misspelled Show/Hide opening a
// paragraph. The comment lines directly above a boundary belong to its
// segment.
func splitSegments(text string) (string, []segment) {
	lines := splitLines(text)

	var boundaries []int
	// floors[n] is the first line the n-th segment may claim, so the body
	// of an unterminated disabled block stays with it
	var floors []int
	inDisabled := false
	paragraph := true
	claimFloor := 0
	// an unterminated disabled block ends at its first blank line
	regionBroken, brokenAt := false, 0
	regionEnd := func(i int) int {
		if regionBroken {
			return brokenAt
		}
		return i
	}

	addBoundary := func(i, floor int) {
		boundaries = append(boundaries, i)
		floors = append(floors, floor)
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inDisabled {
			switch {
			case isDisabledEnd(trimmed):
				inDisabled = false
				continue
			case isDisabledStart(trimmed):
				claimFloor = regionEnd(i)
				addBoundary(i, claimFloor)
				regionBroken = false
				continue
			case trimmed == "":
				if !regionBroken {
					brokenAt, regionBroken = i, true
				}
				continue
			case isComment(trimmed):
				continue
			}
			// a statement ends an unterminated disabled block
			inDisabled = false
			claimFloor = regionEnd(i)
		}

		switch {
		case trimmed == "":
			paragraph = true
		case isDisabledStart(trimmed):
			addBoundary(i, claimFloor)
			inDisabled, regionBroken = true, false
			paragraph = false
		case isComment(trimmed):
		default:
			stmt, _, _ := splitComment(trimmed)
			keyword, _ := splitKeyword(stmt)
			if isBlockKeyword(keyword) || len(boundaries) == 0 || (paragraph && misspelledBlockKeyword(keyword)) {
				addBoundary(i, claimFloor)
			}
			paragraph = false
		}
	}

	if len(boundaries) == 0 {
		return strings.Join(trimTrailingBlank(lines), "\n"), nil
	}

	starts := make([]int, len(boundaries))
	floor := 0
	for n, b := range boundaries {
		if floors[n] > floor {
			floor = floors[n]
		}
		s := b
		for s > floor {
			prev := strings.TrimSpace(lines[s-1])
			if prev == "" || !isComment(prev) || isDisabledEnd(prev) {
				break
			}
			s--
		}
		starts[n] = s
		floor = b + 1
	}

	segments := make([]segment, len(starts))
	for n, s := range starts {
		end := len(lines)
		if n+1 < len(starts) {
			end = starts[n+1]
		}
		segments[n] = segment{index: n, firstLine: s + 1, lines: trimTrailingBlank(lines[s:end])}
	}

	header := strings.Join(trimTrailingBlank(lines[:starts[0]]), "\n")
	return header, segments
}

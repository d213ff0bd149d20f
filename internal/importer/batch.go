package importer

import "strings"

// SplitBatch splits raw text holding many concatenated PGN games into
// one string per game. Games are separated by a blank line, but a PGN
// game's own tag-pair block is itself blank-line-terminated before its
// movetext, so a blank line only ends a game when the next non-blank
// line opens a new tag block ("["). Both the HTTP batch-import endpoint
// and the `explorerd import` command split their input this way.
func SplitBatch(raw string) []string {
	var out []string
	var cur strings.Builder
	lines := strings.Split(raw, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" && cur.Len() > 0 && startsNewGame(lines, i+1) {
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	if strings.TrimSpace(cur.String()) != "" {
		out = append(out, strings.TrimSpace(cur.String()))
	}
	return out
}

func startsNewGame(lines []string, from int) bool {
	for i := from; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		return strings.HasPrefix(trimmed, "[")
	}
	return false
}

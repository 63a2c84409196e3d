// Package cellscan splits a single ZON row or inline line into its
// comma-separated cells, honouring quoted literals so a "," inside a
// quoted string never ends a cell. It plays the same role the reference
// decoder gets from Python's csv.reader, but as a small rune scanner in
// the teacher's hand-rolled-lexer style rather than a borrowed CSV
// engine, since ZON quoting is JSON-style (backslash escapes), not CSV
// quote-doubling.
package cellscan

// Split divides line into comma-separated cells. A cell is either a
// bareword run (no commas, no quotes) or a double-quoted literal in
// which `\"` and other JSON backslash escapes do not terminate the
// quote. It also tracks `[]`/`{}` nesting depth outside of quotes, so a
// packed list or map literal's internal commas (e.g. `[1,2]`) never
// split the cell early — only a comma at bracket depth 0 separates
// cells. An empty line produces an empty cell slice (the grammar's
// data_row allows zero cells only for an empty schema).
func Split(line string) []string {
	if line == "" {
		return nil
	}
	var cells []string
	var cur []byte
	inQuotes := false
	escaped := false
	depth := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			cur = append(cur, c)
			escaped = false
		case inQuotes && c == '\\':
			cur = append(cur, c)
			escaped = true
		case c == '"':
			cur = append(cur, c)
			inQuotes = !inQuotes
		case inQuotes:
			cur = append(cur, c)
		case c == '[' || c == '{':
			depth++
			cur = append(cur, c)
		case c == ']' || c == '}':
			if depth > 0 {
				depth--
			}
			cur = append(cur, c)
		case c == ',' && depth == 0:
			cells = append(cells, string(cur))
			cur = cur[:0]
		default:
			cur = append(cur, c)
		}
	}
	cells = append(cells, string(cur))
	return cells
}

// SplitParenAware divides a header segment's comma list at top level
// only, treating "(" .. ")" spans as opaque so a rule argument list like
// "R(1,1)" is not split at its internal comma. The decoder does not call
// it: the schema column-rule list is read by the parser package.
func SplitParenAware(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

package questiongen

import "strings"

// Segment splits a raw model response into candidate blocks, one per
// expected question, on blank-line boundaries. Line endings are
// normalized and the whole response is trimmed first. An empty response
// yields no blocks; a response without blank lines yields one block.
// Nothing is filtered here.
func Segment(raw string) []string {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n\n")
}

package sqlite

import "strings"

type scannable interface {
	Scan(...any) error
}

// generateParameters returns a "(?,?,...)" placeholder list of length n.
func generateParameters(n int) string {
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("(?")
	for range n - 1 {
		sb.WriteString(",?")
	}

	sb.WriteString(")")
	return sb.String()
}

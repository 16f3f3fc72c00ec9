package common

import "strings"

// UniqueLower trims/lowercases and de-duplicates strings, preserving order.
func UniqueLower(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		u := strings.ToLower(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// EntityID returns the file name up to its first dot, so "7abc.fasta.gz"
// and "7abc.fa" both name entity "7abc".
func EntityID(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

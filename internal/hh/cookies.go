package hh

import (
	"slices"
	"strings"

	"github.com/sevigo/apply-warden/internal/core"
)

// ParseCookies parses a browser cookie header ("a=1; b=2") into material.
// Pairs without "=" are ignored; a later duplicate wins.
func ParseCookies(s string) core.Material {
	m := core.Material{}
	for part := range strings.SplitSeq(s, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			continue
		}
		m[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return m
}

// FormatCookies renders material as a Cookie header, sorted by name.
func FormatCookies(m core.Material) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(m[name])
	}
	return b.String()
}

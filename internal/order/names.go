package order

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName приводит имя из using-директивы к виду для ординального
// сравнения: без "global::", без '@', с раскрытыми \uXXXX / \UXXXXXXXX, в NFC.
func NormalizeName(name string) string {
	name = strings.TrimPrefix(name, "global::")
	if !strings.ContainsAny(name, `@\`) {
		return norm.NFC.String(name)
	}
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); {
		c := name[i]
		switch {
		case c == '@':
			i++
			continue
		case c == '\\' && i+1 < len(name) && (name[i+1] == 'u' || name[i+1] == 'U'):
			width := 4
			if name[i+1] == 'U' {
				width = 8
			}
			if i+2+width <= len(name) {
				if v, err := strconv.ParseUint(name[i+2:i+2+width], 16, 32); err == nil && v <= 0x10FFFF {
					b.WriteRune(rune(v))
					i += 2 + width
					continue
				}
			}
		}
		b.WriteByte(c)
		i++
	}
	return norm.NFC.String(b.String())
}

// FirstSegment returns the first dotted segment of a normalized name.
// "global::" qualified names have no relative first segment.
func FirstSegment(name string) (string, bool) {
	if strings.HasPrefix(name, "global::") {
		return "", false
	}
	name = NormalizeName(name)
	if i := strings.IndexAny(name, ".<:"); i >= 0 {
		name = name[:i]
	}
	return name, name != ""
}

// IsSystemName: System или System.*
func IsSystemName(name string) bool {
	return name == "System" || strings.HasPrefix(name, "System.")
}

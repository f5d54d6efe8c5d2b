package utils

import "strings"

// SanitizeISBN strips hyphens, spaces and any other separators, keeping digits and a trailing X check digit.
func SanitizeISBN(isbn string) string {
	isbn = strings.TrimSpace(isbn)
	var cleaned strings.Builder
	for i, r := range isbn {
		switch {
		case r >= '0' && r <= '9':
			cleaned.WriteRune(r)
		case (r == 'X' || r == 'x') && i == len(isbn)-1:
			cleaned.WriteRune('X')
		}
	}
	return cleaned.String()
}

// ValidISBN reports whether a sanitized ISBN-10 or ISBN-13 has a correct check digit.
func ValidISBN(cleaned string) bool {
	switch len(cleaned) {
	case 10:
		sum := 0
		for i := 0; i < 10; i++ {
			c := cleaned[i]
			var v int
			switch {
			case c >= '0' && c <= '9':
				v = int(c - '0')
			case c == 'X' && i == 9:
				v = 10
			default:
				return false
			}
			sum += v * (10 - i)
		}
		return sum%11 == 0
	case 13:
		sum := 0
		for i := 0; i < 13; i++ {
			c := cleaned[i]
			if c < '0' || c > '9' {
				return false
			}
			v := int(c - '0')
			if i%2 == 1 {
				v *= 3
			}
			sum += v
		}
		return sum%10 == 0
	}
	return false
}

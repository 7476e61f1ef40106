package detect

import (
	"fmt"
	"strings"

	"linkshield/internal/model"
)

// Similarity computes the Ratcliff/Obershelp similarity ratio between two
// strings: twice the number of matching characters (found by recursive
// longest-common-substring matching) divided by the total length.
// Identical strings score 1.0, disjoint strings 0.0.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matches := matchingChars(a, b)
	return 2.0 * float64(matches) / float64(len(a)+len(b))
}

// matchingChars counts matched characters by finding the longest common
// substring and recursing on the pieces to its left and right.
func matchingChars(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	count := size
	count += matchingChars(a[:ai], b[:bi])
	count += matchingChars(a[ai+size:], b[bi+size:])
	return count
}

func longestCommonSubstring(a, b string) (ai, bi, size int) {
	// lengths[j] tracks the common-suffix length ending at b[j-1] for the
	// previous row of a.
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		prev := 0
		for j := 0; j < len(b); j++ {
			cur := lengths[j+1]
			if a[i] == b[j] {
				lengths[j+1] = prev + 1
				if lengths[j+1] > size {
					size = lengths[j+1]
					ai = i - size + 1
					bi = j - size + 1
				}
			} else {
				lengths[j+1] = 0
			}
			prev = cur
		}
	}
	return ai, bi, size
}

// Lookalike flags a domain that is textually similar to a trusted brand but
// not identical to it. An exact match is the legitimate site, never an
// impersonation.
func Lookalike(domain string, brands []string, threshold float64) model.SignalResult {
	var result model.SignalResult
	domain = strings.ToLower(domain)

	for _, brand := range brands {
		brand = strings.ToLower(brand)
		if domain == brand {
			continue
		}
		if sim := Similarity(domain, brand); sim > threshold {
			result.Score = 0.30
			result.Flags = append(result.Flags,
				fmt.Sprintf("domain %q resembles trusted brand %q (similarity %.2f)", domain, brand, sim))
		}
	}

	return result.Clamp()
}

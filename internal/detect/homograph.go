package detect

import (
	"fmt"

	"linkshield/internal/model"
)

// homographPenalty is accumulated per confusable character.
const homographPenalty = 0.2

// confusables maps characters that are visually close to a Latin letter:
// Cyrillic and Greek look-alikes plus digit-for-letter substitutions.
var confusables = map[rune]rune{
	'а': 'a', 'ɑ': 'a', 'α': 'a', // Cyrillic a, Latin alpha, Greek alpha
	'е': 'e', 'ε': 'e',
	'о': 'o', 'ο': 'o', '0': 'o',
	'р': 'p', 'ρ': 'p',
	'с': 'c', 'ϲ': 'c',
	'х': 'x', 'χ': 'x',
	'1': 'l',
}

// Homograph scans each character of the domain against the confusable table
// and accumulates a per-character penalty, flagging every hit individually.
func Homograph(domain string) model.SignalResult {
	var result model.SignalResult

	for _, r := range domain {
		if latin, ok := confusables[r]; ok {
			result.Score += homographPenalty
			result.Flags = append(result.Flags,
				fmt.Sprintf("character %q resembles %q (possible homograph attack)", r, latin))
		}
	}

	return result.Clamp()
}

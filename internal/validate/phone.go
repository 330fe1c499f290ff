// Package validate holds pure input predicates used by the dialog flow.
package validate

import (
	"regexp"
	"strings"
)

// Chilean mobile numbers: optional "+", then the international prefix
// "56" or a national leading "0", then "9" and exactly 8 more digits.
var phoneRe = regexp.MustCompile(`^\+?(56|0)9[0-9]{8}$`)

// Phone reports whether s looks like a Chilean mobile number.
// Surrounding whitespace is ignored; everything else is strict.
func Phone(s string) bool {
	return phoneRe.MatchString(strings.TrimSpace(s))
}

package util

import "fmt"

// Plural buckets for grammatical number: 0 = singular, 1 = few, 2 = many.
// Selection follows the last two digits of the value: the teens always take
// "many" (11 минут), a trailing 1 takes singular (21 минута), trailing 2-4
// take "few" (2 минуты).
func Plural(n int) int {
	lastTwo := n % 100
	if lastTwo < 0 {
		lastTwo = -lastTwo
	}
	if lastTwo/10 == 1 {
		return 2
	}
	switch ones := lastTwo % 10; {
	case ones == 1:
		return 0
	case ones >= 2 && ones <= 4:
		return 1
	default:
		return 2
	}
}

// PluralForm renders "N <suffix>" with the suffix picked from forms
// by the grammatical-number bucket of n.
func PluralForm(n int, forms [3]string) string {
	return fmt.Sprintf("%d %s", n, forms[Plural(n)])
}

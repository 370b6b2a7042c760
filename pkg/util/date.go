package util

import (
	"strings"
	"time"
)

// tplReplacer maps template placeholders to Go layout fragments.
// YYYY must come before YY so the longer form wins.
var tplReplacer = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"hh", "15",
	"mm", "04",
	"ss", "05",
)

// FormatDateTpl formats t using a template with YYYY/YY/MM/DD/hh/mm/ss
// placeholders, e.g. FormatDateTpl(t, "DD.MM.YYYY") -> "10.11.2023".
func FormatDateTpl(t time.Time, tpl string) string {
	return t.Format(tplReplacer.Replace(tpl))
}

// DateKey renders the DD.MM.YYYY key used for day-scoped records.
func DateKey(t time.Time) string {
	return FormatDateTpl(t, "DD.MM.YYYY")
}

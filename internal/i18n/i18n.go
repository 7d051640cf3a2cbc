// Package i18n renders the few user-facing strings the backend produces in
// the supported languages. Unknown codes fall back to English.
package i18n

import (
	"fmt"
	"time"
)

// Supported language codes.
const (
	LangEN = "EN"
	LangDE = "DE"
	LangCN = "CN"
)

// Today returns the localized "today" header.
func Today(lang string) string {
	switch lang {
	case LangDE:
		return "Heute"
	case LangCN:
		return "今天"
	default:
		return "Today"
	}
}

// Yesterday returns the localized "yesterday" header.
func Yesterday(lang string) string {
	switch lang {
	case LangDE:
		return "Gestern"
	case LangCN:
		return "昨天"
	default:
		return "Yesterday"
	}
}

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// Indexed by time.Weekday (Sunday = 0).
var germanWeekdays = [...]string{"So.", "Mo.", "Di.", "Mi.", "Do.", "Fr.", "Sa."}
var chineseWeekdays = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// LongDate renders a date as a dashboard group header: short weekday, long
// month name and day of month, without the year.
func LongDate(t time.Time, lang string) string {
	switch lang {
	case LangDE:
		return fmt.Sprintf("%s, %d. %s", germanWeekdays[t.Weekday()], t.Day(), germanMonths[t.Month()-1])
	case LangCN:
		return fmt.Sprintf("%d月%d日%s", int(t.Month()), t.Day(), chineseWeekdays[t.Weekday()])
	default:
		return fmt.Sprintf("%s, %s %d", t.Format("Mon"), t.Month().String(), t.Day())
	}
}

// Package view derives read-only projections of the file collection:
// dashboard filtering, date grouping and export period membership. It never
// mutates its inputs.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/pdf-archive/backend/internal/i18n"
	"github.com/pdf-archive/backend/internal/models"
)

// ReadStatus filters files by their read flag.
type ReadStatus string

const (
	ReadStatusAll    ReadStatus = "all"
	ReadStatusRead   ReadStatus = "read"
	ReadStatusUnread ReadStatus = "unread"
)

// Query describes the dashboard filter. Zero values mean "no constraint" for
// that dimension; all set dimensions must match (conjunctive).
type Query struct {
	Search     string     // substring of the name or any tag, case-insensitive
	Tags       []string   // at least one must be carried by the file
	Date       *time.Time // exact calendar day
	ReadStatus ReadStatus // empty behaves like ReadStatusAll
}

// Filter returns the files matching every set dimension of the query,
// sorted by archive date, newest first.
func Filter(files []models.FileItem, q Query) []models.FileItem {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	var out []models.FileItem
	for _, f := range files {
		if search != "" && !matchesSearch(&f, search) {
			continue
		}
		if len(q.Tags) > 0 && !hasAnyTag(&f, q.Tags) {
			continue
		}
		if q.Date != nil && !models.SameDay(f.Date, *q.Date) {
			continue
		}
		if q.ReadStatus == ReadStatusRead && !f.IsRead {
			continue
		}
		if q.ReadStatus == ReadStatusUnread && f.IsRead {
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// matchesSearch checks the lowered term against the name and every tag.
func matchesSearch(f *models.FileItem, search string) bool {
	if strings.Contains(strings.ToLower(f.Name), search) {
		return true
	}
	for _, tag := range f.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// hasAnyTag reports whether the file carries at least one of the wanted tags.
func hasAnyTag(f *models.FileItem, wanted []string) bool {
	for _, tag := range wanted {
		if f.HasTag(tag) {
			return true
		}
	}
	return false
}

// InRange reports whether a date falls inside the inclusive [from, to]
// range, comparing calendar days. A zero bound leaves that side open. This
// is the bulk-download selection range, independent of the dashboard filter.
func InRange(date, from, to time.Time) bool {
	day := truncateToDay(date)
	if !from.IsZero() && day.Before(truncateToDay(from)) {
		return false
	}
	if !to.IsZero() && day.After(truncateToDay(to)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Group is a run of files sharing an archive day, in the order produced by
// Filter.
type Group struct {
	Date  time.Time
	Files []models.FileItem
}

// GroupByDate splits an already-sorted file list into day groups with a
// single adjacency scan; a new group starts whenever the day changes.
func GroupByDate(files []models.FileItem) []Group {
	var groups []Group
	for _, f := range files {
		if n := len(groups); n > 0 && models.SameDay(groups[n-1].Date, f.Date) {
			groups[n-1].Files = append(groups[n-1].Files, f)
			continue
		}
		groups = append(groups, Group{Date: f.Date, Files: []models.FileItem{f}})
	}
	return groups
}

// HeaderLabel renders a group date as a localized header: "Today" or
// "Yesterday" relative to now, a long-form date otherwise.
func HeaderLabel(date, now time.Time, lang string) string {
	if models.SameDay(date, now) {
		return i18n.Today(lang)
	}
	if models.SameDay(date, now.AddDate(0, 0, -1)) {
		return i18n.Yesterday(lang)
	}
	return i18n.LongDate(date, lang)
}

// Period is an export grouping granularity.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// InPeriod reports whether a file's archive date falls in the same period as
// the anchor date. Weekly periods are week numbers counted from January 1 of
// the date's year.
func InPeriod(date, anchor time.Time, period Period) bool {
	switch period {
	case PeriodDaily:
		return models.SameDay(date, anchor)
	case PeriodWeekly:
		return date.Year() == anchor.Year() && weekOfYear(date) == weekOfYear(anchor)
	case PeriodMonthly:
		return date.Year() == anchor.Year() && date.Month() == anchor.Month()
	default:
		return false
	}
}

// weekOfYear numbers weeks from January 1, offset by the date's weekday
// (Sunday = 0), rounding up.
func weekOfYear(t time.Time) int {
	yearStart := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := int(truncateToDay(t).Sub(yearStart).Hours() / 24)
	return (int(t.Weekday()) + 1 + days + 6) / 7
}

package result

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"locale-qa/internal/paths"
)

// completionCats are the counters that make up the completion total.
var completionCats = []string{"changed", "unchanged", "report", "missing", "missingInFiles"}

// Observer collects findings from comparison runs: per-locale counters,
// a detail tree of events per file, and optionally per-file stats.
type Observer struct {
	Summary   map[string]map[string]int
	Details   *Tree[[]Event]
	FileStats map[string]map[string]map[string]int

	filter Filter
}

// NewObserver builds an observer. filter may be nil, meaning every
// finding is kept. fileStats enables per-file counter tracking.
func NewObserver(filter Filter, fileStats bool) *Observer {
	o := &Observer{
		Summary: make(map[string]map[string]int),
		Details: NewTree(func() []Event { return nil }),
		filter:  filter,
	}
	if fileStats {
		o.FileStats = make(map[string]map[string]map[string]int)
	}
	return o
}

// Notify records a single finding and returns the verdict the caller
// should act on. Ignored findings leave no trace; errors and warnings
// are always kept and counted.
func (o *Observer) Notify(category string, file paths.File, data string) Verdict {
	rv := VerdictError
	switch category {
	case "missingFile", "obsoleteFile":
		if o.filter != nil {
			rv = o.filter(file, "")
		}
		if rv != VerdictIgnore {
			o.appendEvent(file, Event{Kind: category, Message: string(rv)})
		}
		return rv
	case "missingEntity", "obsoleteEntity":
		if o.filter != nil {
			rv = o.filter(file, data)
		}
		if rv == VerdictIgnore {
			return rv
		}
		o.appendEvent(file, Event{Kind: category, Message: data})
		return rv
	case "error", "warning":
		o.appendEvent(file, Event{Kind: category, Message: data})
		o.bump(file.Locale, category+"s", 1)
	}
	return rv
}

// UpdateStats folds per-file counters into the locale summary and,
// when enabled, into per-file stats. An entity filter verdict of
// ignore on the whole file drops the counters.
func (o *Observer) UpdateStats(file paths.File, stats map[string]int) {
	if o.filter != nil && o.filter(file, "") == VerdictIgnore {
		return
	}
	for category, value := range stats {
		o.bump(file.Locale, category, value)
	}
	if o.FileStats == nil {
		return
	}
	perFile := o.fileStats(file)
	if n, ok := stats["missingInFiles"]; ok {
		// The file itself was already reported as missing; record how
		// many entities it would contribute.
		o.appendEvent(file, Event{Kind: "count", Count: n})
		perFile["missing"] = n
		return
	}
	for category, value := range stats {
		perFile[category] += value
	}
}

func (o *Observer) fileStats(file paths.File) map[string]int {
	perLocale, ok := o.FileStats[file.Locale]
	if !ok {
		perLocale = make(map[string]map[string]int)
		o.FileStats[file.Locale] = perLocale
	}
	perFile, ok := perLocale[file.Path]
	if !ok {
		perFile = make(map[string]int)
		perLocale[file.Path] = perFile
	}
	return perFile
}

func (o *Observer) appendEvent(file paths.File, ev Event) {
	evs := o.Details.Insert(file.TreeParts())
	*evs = append(*evs, ev)
}

func (o *Observer) bump(locale, category string, n int) {
	s, ok := o.Summary[locale]
	if !ok {
		s = make(map[string]int)
		o.Summary[locale] = s
	}
	s[category] += n
}

// Merge folds another observer's findings into this one. Detail events
// are appended in the other observer's walk order.
func (o *Observer) Merge(other *Observer) {
	for locale, summary := range other.Summary {
		for category, value := range summary {
			o.bump(locale, category, value)
		}
	}
	other.Details.Walk(func(path string, evs *[]Event) {
		slot := o.Details.Insert(strings.Split(path, "/"))
		*slot = append(*slot, *evs...)
	})
	if o.FileStats == nil || other.FileStats == nil {
		return
	}
	for locale, perLocale := range other.FileStats {
		dst, ok := o.FileStats[locale]
		if !ok {
			dst = make(map[string]map[string]int)
			o.FileStats[locale] = dst
		}
		for file, stats := range perLocale {
			perFile, ok := dst[file]
			if !ok {
				perFile = make(map[string]int)
				dst[file] = perFile
			}
			for category, value := range stats {
				perFile[category] += value
			}
		}
	}
}

// ToJSON renders the observer as a JSON-ready structure with "summary"
// and "details" keys.
func (o *Observer) ToJSON() map[string]any {
	return map[string]any{
		"summary": o.Summary,
		"details": o.Details.ToMap(func(evs *[]Event) any { return *evs }),
	}
}

// Serialize renders the observer as "text" or "json".
func (o *Observer) Serialize(format string) (string, error) {
	switch format {
	case "json":
		buf, err := json.MarshalIndent(o.ToJSON(), "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal results: %w", err)
		}
		return string(buf), nil
	case "text":
		return o.serializeText(), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func (o *Observer) serializeText() string {
	var out []string
	o.Details.Walk(func(path string, evs *[]Event) {
		out = append(out, path)
		for _, ev := range *evs {
			switch ev.Kind {
			case "error":
				out = append(out, "    ERROR: "+ev.Message)
			case "warning":
				out = append(out, "    WARNING: "+ev.Message)
			case "missingEntity":
				out = append(out, "    +"+ev.Message)
			case "obsoleteEntity":
				out = append(out, "    -"+ev.Message)
			case "missingFile":
				out = append(out, "    // add and localize this file")
			case "obsoleteFile":
				out = append(out, "    // remove this file")
			}
		}
	})

	locales := make([]string, 0, len(o.Summary))
	for locale := range o.Summary {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		summary := o.Summary[locale]
		if locale != "" {
			out = append(out, locale+":")
		}
		cats := make([]string, 0, len(summary))
		for cat := range summary {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			out = append(out, fmt.Sprintf("%s: %d", cat, summary[cat]))
		}
		out = append(out, fmt.Sprintf("%d%% of entries changed", completion(summary)))
	}
	return strings.Join(out, "\n")
}

// completion is the percentage of reference entries with a changed
// translation, over everything that should be translated.
func completion(summary map[string]int) int {
	total := 0
	for _, cat := range completionCats {
		total += summary[cat]
	}
	if total == 0 {
		return 0
	}
	return summary["changed"] * 100 / total
}

// DashboardRow is a flat per-locale roll-up of a run, suitable for
// history storage and status reporting.
type DashboardRow struct {
	Locale     string
	Changed    int
	Unchanged  int
	Report     int
	Errors     int
	Warnings   int
	Missing    int
	Obsolete   int
	Completion int
	Total      int
	ChangedW   int
	UnchangedW int
	MissingW   int
	TotalW     int
	Result     string
}

// DashboardRows summarizes each locale. A locale fails on errors or
// missing strings, warns on warnings, and succeeds otherwise.
func (o *Observer) DashboardRows() []DashboardRow {
	locales := make([]string, 0, len(o.Summary))
	for locale := range o.Summary {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	rows := make([]DashboardRow, 0, len(locales))
	for _, locale := range locales {
		s := o.Summary[locale]
		row := DashboardRow{
			Locale:     locale,
			Changed:    s["changed"],
			Unchanged:  s["unchanged"],
			Report:     s["report"],
			Errors:     s["errors"],
			Warnings:   s["warnings"],
			Missing:    s["missing"] + s["missingInFiles"],
			Obsolete:   s["obsolete"],
			Completion: completion(s),
			ChangedW:   s["changed_w"],
			UnchangedW: s["unchanged_w"],
			MissingW:   s["missing_w"],
		}
		row.Total = row.Changed + row.Unchanged + row.Report + row.Missing
		row.TotalW = row.ChangedW + row.UnchangedW + row.MissingW
		switch {
		case row.Errors > 0 || row.Missing > 0:
			row.Result = "failure"
		case row.Warnings > 0:
			row.Result = "warning"
		default:
			row.Result = "success"
		}
		rows = append(rows, row)
	}
	return rows
}

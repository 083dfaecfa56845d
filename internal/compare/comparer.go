// Package compare diffs localized resource files against their
// reference versions, classifies every entity, runs content checks,
// and optionally writes merged files that fill in missing or broken
// translations from the reference.
package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"locale-qa/internal/checks"
	"locale-qa/internal/parser"
	"locale-qa/internal/paths"
	"locale-qa/internal/result"
	"locale-qa/internal/textutil"
)

// keyNameRe spots entities that hold access or command keys. Their
// values are expected to differ per locale, so they are counted apart
// from translatable strings.
var keyNameRe = regexp.MustCompile(`[kK]ey`)

// Comparer drives per-file comparisons and fans findings out to
// observers. Stat observers receive everything the primary observers
// did not ignore, without influencing verdicts.
type Comparer struct {
	registry      *parser.Registry
	observers     []*result.Observer
	statObservers []*result.Observer
}

func New(registry *parser.Registry, observers, statObservers []*result.Observer) *Comparer {
	return &Comparer{
		registry:      registry,
		observers:     observers,
		statObservers: statObservers,
	}
}

// Notify forwards a finding to every observer and aggregates their
// verdicts: ignore only when all observers ignore, error before
// warning before anything else.
func (c *Comparer) Notify(category string, file paths.File, data string) result.Verdict {
	verdicts := make(map[result.Verdict]bool)
	for _, o := range c.observers {
		verdicts[o.Notify(category, file, data)] = true
	}
	delete(verdicts, result.VerdictIgnore)
	if len(verdicts) == 0 {
		return result.VerdictIgnore
	}
	for _, o := range c.statObservers {
		o.Notify(category, file, data)
	}
	if verdicts[result.VerdictError] {
		return result.VerdictError
	}
	if verdicts[result.VerdictWarning] {
		return result.VerdictWarning
	}
	for v := range verdicts {
		return v
	}
	return result.VerdictError
}

// UpdateStats forwards per-file counters to all observers.
func (c *Comparer) UpdateStats(file paths.File, stats map[string]int) {
	for _, o := range c.observers {
		o.UpdateStats(file, stats)
	}
	for _, o := range c.statObservers {
		o.UpdateStats(file, stats)
	}
}

// Compare diffs one localized file against its reference. Parse and
// read problems become error findings; only infrastructure failures
// (unknown format, merge output I/O) are returned.
func (c *Comparer) Compare(refFile, l10nFile paths.File, mergePath string, extraChecks []string) error {
	p, err := c.registry.ForPath(refFile.Path)
	if err != nil {
		return err
	}

	ref, ok := c.parseFile(p, refFile)
	if !ok {
		return nil
	}
	l10n, ok := c.parseFile(p, l10nFile)
	if !ok {
		return nil
	}

	ar := &AddRemove{}
	ar.SetLeft(ref.Keys())
	ar.SetRight(l10n.Keys())

	var missing, report, obsolete, changed, unchanged, keys int
	var missingW, changedW, unchangedW int
	var missings []string
	var skips []parser.Node
	checker := checks.GetChecker(l10nFile, extraChecks)

	for _, change := range ar.Changes() {
		switch change.Op {
		case OpDelete:
			switch c.Notify("missingEntity", l10nFile, change.Key) {
			case result.VerdictIgnore:
			case result.VerdictError:
				// Only merge on error; a report verdict means the
				// string is allowed to stay untranslated.
				missings = append(missings, change.Key)
				missing++
				refNode, _ := ref.Node(change.Key)
				missingW += textutil.CountWords(refNode.Val())
			default:
				report++
			}
		case OpAdd:
			node, _ := l10n.Node(change.Key)
			if junk, isJunk := node.(*parser.Junk); isJunk {
				start := junk.Position(0)
				end := junk.Position(-1)
				c.Notify("error", l10nFile, fmt.Sprintf(
					"Unparsed content \"%s\" from line %d column %d to line %d column %d",
					textutil.Truncate(junk.Val(), 80), start.Line, start.Col, end.Line, end.Col))
				if mergePath != "" {
					skips = append(skips, junk)
				}
			} else if c.Notify("obsoleteEntity", l10nFile, change.Key) != result.VerdictIgnore {
				obsolete++
			}
		case OpEqual:
			refNode, _ := ref.Node(change.Key)
			l10nNode, _ := l10n.Node(change.Key)
			if keyNameRe.MatchString(change.Key) {
				keys++
			} else if refNode.Val() == l10nNode.Val() {
				unchanged++
				unchangedW += textutil.CountWords(refNode.Val())
			} else {
				changed++
				changedW += textutil.CountWords(refNode.Val())
			}
			refEnt, refIsEnt := refNode.(*parser.Entity)
			l10nEnt, l10nIsEnt := l10nNode.(*parser.Entity)
			if checker == nil || !refIsEnt || !l10nIsEnt {
				continue
			}
			for _, problem := range checker.Check(refEnt, l10nEnt) {
				pos := problemPosition(l10nEnt, problem)
				if problem.Severity == "error" && mergePath != "" {
					skips = append(skips, l10nEnt)
				}
				c.Notify(problem.Severity, l10nFile, fmt.Sprintf(
					"%s at line %d, column %d for %s",
					problem.Message, pos.Line, pos.Col, refEnt.Key()))
			}
		}
	}

	if mergePath != "" && (len(missings) > 0 || len(skips) > 0) {
		if err := c.merge(ref, refFile, l10n, mergePath, missings, skips, p); err != nil {
			return err
		}
	}

	stats := make(map[string]int)
	for _, counter := range []struct {
		category string
		value    int
	}{
		{"missing", missing},
		{"missing_w", missingW},
		{"report", report},
		{"obsolete", obsolete},
		{"changed", changed},
		{"changed_w", changedW},
		{"unchanged", unchanged},
		{"unchanged_w", unchangedW},
		{"keys", keys},
	} {
		if counter.value != 0 {
			stats[counter.category] = counter.value
		}
	}
	c.UpdateStats(l10nFile, stats)
	return nil
}

// Add records a file that exists in the reference but not in the
// locale: the file itself plus how much it would contribute.
func (c *Comparer) Add(orig, missing paths.File) error {
	if c.Notify("missingFile", missing, "") == result.VerdictIgnore {
		return nil
	}
	p, err := c.registry.ForPath(orig.Path)
	if err != nil {
		return err
	}
	res, ok := c.parseFile(p, orig)
	if !ok {
		return nil
	}
	c.UpdateStats(missing, map[string]int{"missingInFiles": len(res.Index)})
	missingW := 0
	for _, node := range res.Nodes {
		missingW += textutil.CountWords(node.Val())
	}
	c.UpdateStats(missing, map[string]int{"missing_w": missingW})
	return nil
}

// Remove records a localized file with no reference counterpart.
func (c *Comparer) Remove(obsolete paths.File) {
	c.Notify("obsoleteFile", obsolete, "")
}

// parseFile reads and parses one file, reporting failures as error
// findings on that file.
func (c *Comparer) parseFile(p parser.Parser, file paths.File) (*parser.Resource, bool) {
	raw, err := os.ReadFile(file.FullPath)
	if err != nil {
		c.Notify("error", file, err.Error())
		return nil, false
	}
	res, err := p.Parse(raw)
	if err != nil {
		c.Notify("error", file, err.Error())
		return nil, false
	}
	return res, true
}

// problemPosition translates a check finding position, relative to the
// localized value, into a file position.
func problemPosition(ent *parser.Entity, p checks.Problem) parser.Pos {
	if p.LineCol {
		start := ent.ValuePosition(0)
		if p.Line == 1 {
			return parser.Pos{Line: start.Line, Col: start.Col + p.Col}
		}
		return parser.Pos{Line: start.Line + p.Line - 1, Col: p.Col}
	}
	return ent.ValuePosition(p.Offset)
}

// merge writes a merge file: the localized content with broken blocks
// spliced out and the reference versions of missing or broken entities
// appended. Formats that cannot be merged get a byte copy of the
// reference instead.
func (c *Comparer) merge(ref *parser.Resource, refFile paths.File, l10n *parser.Resource, mergePath string, missing []string, skips []parser.Node, p parser.Parser) error {
	if err := os.MkdirAll(filepath.Dir(mergePath), 0o755); err != nil {
		return fmt.Errorf("create merge dir: %w", err)
	}
	if !p.CanMerge() {
		raw, err := os.ReadFile(refFile.FullPath)
		if err != nil {
			return fmt.Errorf("copy reference: %w", err)
		}
		if err := os.WriteFile(mergePath, raw, 0o644); err != nil {
			return fmt.Errorf("write merge file: %w", err)
		}
		log.Info().Str("file", mergePath).Msg("Copied reference for unmergeable format")
		return nil
	}

	// Skips arrive in key order; splicing needs file order.
	sort.Slice(skips, func(i, j int) bool {
		return skips[i].Span().Start < skips[j].Span().Start
	})

	var out strings.Builder
	contents := l10n.Ctx.Contents()
	offset := 0
	for _, skip := range skips {
		sp := skip.Span()
		if sp.Start < offset {
			// An entity with several check errors shows up once per
			// error; its span is already spliced out.
			continue
		}
		out.WriteString(contents[offset:sp.Start])
		offset = sp.End
	}
	out.WriteString(contents[offset:])

	var missingNodes []parser.Node
	for _, key := range missing {
		if node, found := ref.Node(key); found {
			missingNodes = append(missingNodes, node)
		}
	}
	// Missing entities arrive in key order; append them in the order
	// they appear in the reference file.
	sort.Slice(missingNodes, func(i, j int) bool {
		return missingNodes[i].Span().Start < missingNodes[j].Span().Start
	})
	var trailing []string
	for _, node := range missingNodes {
		trailing = append(trailing, node.All())
	}
	appended := make(map[string]bool, len(skips))
	for _, skip := range skips {
		if _, isJunk := skip.(*parser.Junk); isJunk {
			continue
		}
		if appended[skip.Key()] {
			continue
		}
		appended[skip.Key()] = true
		if node, found := ref.Node(skip.Key()); found {
			trailing = append(trailing, node.All())
		}
	}

	merged := out.String()
	if len(trailing) > 0 {
		if merged != "" && !strings.HasSuffix(merged, "\n") {
			merged += "\n"
		}
		for _, chunk := range trailing {
			merged += ensureNewline(chunk)
		}
	}
	raw, err := parser.Encode(merged, p.Encoding())
	if err != nil {
		return fmt.Errorf("encode merge file: %w", err)
	}
	if err := os.WriteFile(mergePath, raw, 0o644); err != nil {
		return fmt.Errorf("write merge file: %w", err)
	}
	log.Info().Str("file", mergePath).Int("missing", len(missing)).Int("skips", len(skips)).Msg("Wrote merge file")
	return nil
}

func ensureNewline(s string) string {
	if !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}

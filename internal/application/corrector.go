package application

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abdidvp/themecheck/internal/domain"
)

// MaxCorrectionPasses bounds the correction passes run on one template.
// Dependent corrections take one pass per link, e.g. a chain of assigns
// that only become unused once the next one is removed.
const MaxCorrectionPasses = 100

// ErrCorrectionDiverged is returned when a template still has correctable
// offenses after MaxCorrectionPasses passes. Passes accepted before the
// bound was hit stay written to disk.
var ErrCorrectionDiverged = errors.New("correction did not converge")

// CorrectOffenses rewrites every template that has correctable offenses,
// then reruns the theme-scoped checks against the corrected theme. It does
// nothing unless the analyzer was created with auto-correction enabled.
//
// Offenses that cannot be fixed are kept with StatusUncorrectable; fixed ones
// are kept with StatusCorrected.
func (a *Analyzer) CorrectOffenses(ctx context.Context) error {
	if !a.autoCorrect {
		return nil
	}

	a.mu.Lock()
	current := append([][]domain.Offense(nil), a.templateOffenses...)
	a.mu.Unlock()

	results := make([][]domain.Offense, len(current))
	copy(results, current)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, tpl := range a.theme.Templates {
		if i >= len(current) || !anyCorrectable(current[i]) {
			continue
		}
		g.Go(func() error {
			offenses, err := a.correctTemplate(gctx, tpl, current[i])
			if err != nil {
				return err
			}
			results[i] = offenses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.mu.Lock()
	a.templateOffenses = results
	a.mu.Unlock()

	a.runThemeChecks()
	return nil
}

func anyCorrectable(offenses []domain.Offense) bool {
	for _, o := range offenses {
		if o.Correctable() {
			return true
		}
	}
	return false
}

// correctTemplate runs correction passes on one template until nothing
// correctable is left. Each pass applies a non-overlapping subset of the
// pending corrections, persists, re-parses and re-analyzes. A pass that
// breaks the syntax or leaves a corrected offense in place is reverted. A
// pass that would restore a source already seen is skipped and its
// corrections are marked unresolved.
func (a *Analyzer) correctTemplate(ctx context.Context, tpl *domain.Template, offenses []domain.Offense) ([]domain.Offense, error) {
	log := a.logger.With(zap.String("template", tpl.RelativePath))

	var corrected, failed []domain.Offense
	current := offenses
	pending := pendingCorrections(current, failed)
	seen := map[string]bool{tpl.Source(): true}

	for pass := 0; len(pending) > 0; pass++ {
		if pass == MaxCorrectionPasses {
			return nil, fmt.Errorf("%w: %s still has %d correctable offenses after %d passes",
				ErrCorrectionDiverged, tpl.RelativePath, len(pending), pass)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chosen, edits := selectCorrections(pending)
		before := tpl.Source()
		after, err := applyEdits(before, edits)
		if err != nil {
			log.Debug("discarding correction", zap.Error(err))
			failed = append(failed, markAll(chosen, domain.ReasonUnresolved)...)
			pending = pendingCorrections(current, failed)
			continue
		}
		if seen[after] {
			log.Debug("correction cycles back to an earlier source, skipping", zap.Int("pass", pass), zap.Int("count", len(chosen)))
			failed = append(failed, markAll(chosen, domain.ReasonUnresolved)...)
			pending = pendingCorrections(current, failed)
			continue
		}
		if err := tpl.Write(after); err != nil {
			return nil, fmt.Errorf("correcting %s: %w", tpl.RelativePath, err)
		}

		result, parseErr := a.analyzeTemplate(tpl)
		if parseErr != nil {
			log.Debug("correction broke the template, reverting", zap.Int("pass", pass), zap.Error(parseErr))
			if err := a.revert(tpl, before); err != nil {
				return nil, err
			}
			failed = append(failed, markAll(chosen, domain.ReasonSyntaxError)...)
			pending = pendingCorrections(current, failed)
			continue
		}

		if recurring := recurringOffenses(chosen, current, result); len(recurring) > 0 {
			log.Debug("correction did not resolve offenses, reverting", zap.Int("pass", pass), zap.Int("recurring", len(recurring)))
			if err := a.revert(tpl, before); err != nil {
				return nil, err
			}
			failed = append(failed, markAll(recurring, domain.ReasonUnresolved)...)
			pending = pendingCorrections(current, failed)
			continue
		}

		log.Debug("applied corrections", zap.Int("pass", pass), zap.Int("count", len(chosen)))
		seen[after] = true
		for _, o := range chosen {
			corrected = append(corrected, o.WithStatus(domain.StatusCorrected, ""))
		}
		failed = shiftOffenses(failed, edits)
		current = result
		pending = pendingCorrections(current, failed)
	}

	out := append(corrected, reconcile(current, failed)...)
	domain.SortOffenses(out)
	return out, nil
}

// revert restores the source of tpl and re-parses it so later theme checks
// see the restored document.
func (a *Analyzer) revert(tpl *domain.Template, src string) error {
	if err := tpl.Write(src); err != nil {
		return fmt.Errorf("reverting %s: %w", tpl.RelativePath, err)
	}
	_, _ = tpl.Parse(a.parser)
	return nil
}

func markAll(offenses []domain.Offense, reason string) []domain.Offense {
	out := make([]domain.Offense, len(offenses))
	for i, o := range offenses {
		out[i] = o.WithStatus(domain.StatusUncorrectable, reason)
	}
	return out
}

// sameOffense matches an offense across analyses of unchanged source.
func sameOffense(a, b domain.Offense) bool {
	return a.Key() == b.Key() && a.Start == b.Start
}

// pendingCorrections returns the correctable offenses of current that have
// not already failed, in offense order.
func pendingCorrections(current, failed []domain.Offense) []domain.Offense {
	var out []domain.Offense
	for _, o := range current {
		if !o.Correctable() || containsOffense(failed, o) {
			continue
		}
		out = append(out, o)
	}
	domain.SortOffenses(out)
	return out
}

func containsOffense(list []domain.Offense, o domain.Offense) bool {
	for _, f := range list {
		if sameOffense(f, o) {
			return true
		}
	}
	return false
}

// reconcile returns current with every offense that failed correction
// replaced by its uncorrectable copy.
func reconcile(current, failed []domain.Offense) []domain.Offense {
	out := make([]domain.Offense, 0, len(current))
	for _, o := range current {
		for _, f := range failed {
			if sameOffense(f, o) {
				o = o.WithStatus(f.Status, f.Reason)
				break
			}
		}
		out = append(out, o)
	}
	return out
}

// selectCorrections picks, in offense order, the pending offenses whose
// edits do not conflict with an offense picked before them. The rest wait
// for a later pass.
func selectCorrections(pending []domain.Offense) ([]domain.Offense, []domain.Edit) {
	var chosen []domain.Offense
	var edits []domain.Edit
	for _, o := range pending {
		if conflictsWithExisting(edits, o.Correction.Edits) {
			continue
		}
		chosen = append(chosen, o)
		edits = append(edits, o.Correction.Edits...)
	}
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}
		return edits[i].End < edits[j].End
	})
	return chosen, edits
}

func conflictsWithExisting(existing, edits []domain.Edit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits overlap as half-open ranges.
// Two insertions never conflict; an insertion conflicts with a replaced
// range that contains its position.
func spansConflict(a, b domain.Edit) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// applyEdits rewrites src with edits sorted by ascending start. Edits are
// applied from the last to the first so earlier offsets stay valid.
func applyEdits(src string, edits []domain.Edit) (string, error) {
	for _, e := range edits {
		if e.Start < 0 || e.End > len(src) || e.Start > e.End {
			return "", fmt.Errorf("edit [%d,%d) is out of range for %d bytes", e.Start, e.End, len(src))
		}
	}
	out := src
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		var b strings.Builder
		b.Grow(len(out) - (e.End - e.Start) + len(e.NewText))
		b.WriteString(out[:e.Start])
		b.WriteString(e.NewText)
		b.WriteString(out[e.End:])
		out = b.String()
	}
	return out, nil
}

// cumulativeDelta is how far pos moves once edits are applied.
func cumulativeDelta(edits []domain.Edit, pos int) int {
	delta := 0
	for _, e := range edits {
		if e.Start > pos {
			break
		}
		if e.End <= pos {
			delta += len(e.NewText) - (e.End - e.Start)
		}
	}
	return delta
}

// shiftOffenses moves failed offenses to their offsets in the rewritten
// source.
func shiftOffenses(offenses []domain.Offense, edits []domain.Edit) []domain.Offense {
	out := make([]domain.Offense, len(offenses))
	for i, o := range offenses {
		o.Start += cumulativeDelta(edits, o.Start)
		o.End += cumulativeDelta(edits, o.End)
		out[i] = o
	}
	return out
}

// recurringOffenses returns the chosen offenses that are still reported
// after their correction. Offsets move when the source is rewritten, so
// offenses are counted by check and message: a key recurs when the new
// analysis reports more of it than were left uncorrected.
func recurringOffenses(chosen, before, after []domain.Offense) []domain.Offense {
	fixed := countKeys(chosen)
	was := countKeys(before)
	now := countKeys(after)

	var out []domain.Offense
	for _, o := range chosen {
		k := o.Key()
		if now[k] > was[k]-fixed[k] {
			out = append(out, o)
		}
	}
	return out
}

func countKeys(offenses []domain.Offense) map[string]int {
	counts := make(map[string]int, len(offenses))
	for _, o := range offenses {
		counts[o.Key()]++
	}
	return counts
}

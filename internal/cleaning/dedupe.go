package cleaning

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"communitypulse/pkg/contracts/domain"
)

// DefaultSimilarityThreshold is the name-similarity ratio at or above which
// two rows are treated as the same logical member.
const DefaultSimilarityThreshold = 0.85

// DeduperConfig configures the duplicate resolver.
type DeduperConfig struct {
	// SimilarityThreshold for the approximate name-match pass, in [0, 1].
	SimilarityThreshold float64

	// Workers bounds the goroutines used for pairwise comparison.
	// Zero means GOMAXPROCS.
	Workers int
}

// DedupeResult reports how many rows each pass removed.
type DedupeResult struct {
	ExactRemoved int
	FuzzyRemoved int
}

// Removed returns the total number of rows dropped.
func (r DedupeResult) Removed() int {
	return r.ExactRemoved + r.FuzzyRemoved
}

// Deduper removes duplicate member rows in two stages: an exact pass keyed
// on the normalized email, then an approximate pass comparing name
// similarity across the survivors.
//
// The approximate pass compares every unordered pair of rows, which is
// O(n^2) in the candidate set and the dominant cost of the whole pipeline
// for large tables. The comparisons are independent and read-only, so they
// are fanned out across workers; matches are merged in fixed (i, j) order
// afterwards so the retained representative is always the row with the
// lowest original index no matter which comparison finishes first.
type Deduper struct {
	logger    *slog.Logger
	threshold float64
	workers   int
}

// NewDeduper creates a duplicate resolver.
func NewDeduper(logger *slog.Logger, config DeduperConfig) *Deduper {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SimilarityThreshold <= 0 || config.SimilarityThreshold > 1 {
		config.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	return &Deduper{
		logger:    logger,
		threshold: config.SimilarityThreshold,
		workers:   config.Workers,
	}
}

// Remove drops duplicate rows from the table and reports per-pass removal
// counts. An empty or single-row table is returned unchanged.
func (d *Deduper) Remove(ctx context.Context, table *domain.Table) (DedupeResult, error) {
	var result DedupeResult
	if table.Len() < 2 {
		return result, nil
	}

	before := table.Len()
	d.exactPass(table)
	result.ExactRemoved = before - table.Len()

	fuzzyRemoved, err := d.fuzzyPass(ctx, table)
	if err != nil {
		return result, err
	}
	result.FuzzyRemoved = fuzzyRemoved

	d.logger.Debug("deduplication finished",
		slog.Int("exact_removed", result.ExactRemoved),
		slog.Int("fuzzy_removed", result.FuzzyRemoved),
		slog.Int("rows_remaining", table.Len()))
	return result, nil
}

// exactPass drops strict full-row duplicates, then groups the remaining
// rows by normalized email and keeps the first-seen member of each group.
// Rows without an email are never grouped by key.
func (d *Deduper) exactPass(table *domain.Table) {
	seenRows := make(map[string]bool, len(table.Records))
	seenEmails := make(map[string]bool, len(table.Records))

	kept := make([]domain.Record, 0, len(table.Records))
	for _, r := range table.Records {
		fp := r.Fingerprint()
		if seenRows[fp] {
			continue
		}
		seenRows[fp] = true

		if table.HasColumn(domain.ColumnEmail) {
			key := normalizeEmailKey(r.Email)
			if key != "" {
				if seenEmails[key] {
					continue
				}
				seenEmails[key] = true
			}
		}
		kept = append(kept, r)
	}
	table.Records = kept
}

// matchPair records that row j duplicates the earlier row i.
type matchPair struct {
	i, j int
}

// fuzzyPass merges rows whose names are nearly identical and whose emails do
// not contradict each other. Identical names with distinct non-empty emails
// are never merged; the email stays authoritative for identity.
func (d *Deduper) fuzzyPass(ctx context.Context, table *domain.Table) (int, error) {
	if !table.HasColumn(domain.ColumnName) || table.Len() < 2 {
		return 0, nil
	}

	n := table.Len()
	names := make([]string, n)
	emails := make([]string, n)
	for i, r := range table.Records {
		names[i] = strings.Join(strings.Fields(r.Name), " ")
		emails[i] = normalizeEmailKey(r.Email)
	}

	pairs, err := d.findMatches(ctx, names, emails)
	if err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		return 0, nil
	}

	// Sweep matches in (i, j) order: a row already marked as a duplicate
	// cannot claim later rows, which reproduces the sequential semantics
	// regardless of how the parallel comparison interleaved.
	dropped := make([]bool, n)
	for _, p := range pairs {
		if !dropped[p.i] && !dropped[p.j] {
			dropped[p.j] = true
		}
	}

	kept := table.Records[:0]
	removed := 0
	for i, r := range table.Records {
		if dropped[i] {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	table.Records = kept
	return removed, nil
}

// findMatches runs the O(n^2) pairwise comparison across workers. Each
// worker owns a strided share of the outer loop and appends into its own
// slice, so no synchronization is needed until the final merge.
func (d *Deduper) findMatches(ctx context.Context, names, emails []string) ([]matchPair, error) {
	n := len(names)
	workers := d.workers
	if workers > n {
		workers = n
	}

	found := make([][]matchPair, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := w; i < n; i += workers {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if names[i] == "" {
					continue
				}
				for j := i + 1; j < n; j++ {
					if names[j] == "" {
						continue
					}
					if !compatibleIdentity(emails[i], emails[j]) {
						continue
					}
					if LevenshteinRatio(names[i], names[j]) >= d.threshold {
						found[w] = append(found[w], matchPair{i: i, j: j})
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pairs []matchPair
	for _, f := range found {
		pairs = append(pairs, f...)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].i != pairs[b].i {
			return pairs[a].i < pairs[b].i
		}
		return pairs[a].j < pairs[b].j
	})
	return pairs, nil
}

// compatibleIdentity reports whether two rows could describe the same
// member: matching emails, or at least one side missing its email.
func compatibleIdentity(email1, email2 string) bool {
	if email1 == "" || email2 == "" {
		return true
	}
	return email1 == email2
}

func normalizeEmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package narrative

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"auditintel/pkg/contracts/domain"
)

// DefaultCurrency labels monetary amounts when no other label is configured
const DefaultCurrency = "TZS"

const divider = "================================"

// Narrator turns analysis results into a plain-text summary and a set of
// insights. It only reads the results it is given.
type Narrator struct {
	currency string
	selector Selector
}

// Option configures a Narrator
type Option func(*Narrator)

// WithCurrency sets the label printed before monetary amounts
func WithCurrency(label string) Option {
	return func(n *Narrator) {
		if label != "" {
			n.currency = label
		}
	}
}

// WithSelector sets how phrase variants are chosen
func WithSelector(s Selector) Option {
	return func(n *Narrator) {
		if s != nil {
			n.selector = s
		}
	}
}

// New creates a Narrator. Without options it prints TZS amounts and always
// uses the first phrasing of each sentence.
func New(opts ...Option) *Narrator {
	n := &Narrator{currency: DefaultCurrency, selector: FirstSelector{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Currency returns the configured currency label
func (n *Narrator) Currency() string { return n.currency }

// Summarize renders the multi-line summary for one analyzed sheet
func (n *Narrator) Summarize(sheet string, _ domain.FormatInfo, result domain.AnalysisResult) string {
	switch r := result.(type) {
	case *domain.FindingsAnalysis:
		return n.findingsSummary(sheet, r)
	case *domain.MultiTenderAnalysis:
		return n.multiTenderSummary(sheet, r)
	case *domain.EntitySummaryAnalysis:
		return n.entitySummary(sheet, r)
	case *domain.ErrorResult:
		if r.Format == domain.FormatUnknown {
			return fmt.Sprintf("%s: Unknown format - cannot analyze", sheet)
		}
		return fmt.Sprintf("%s: analysis skipped - %s", sheet, r.Message)
	default:
		return ""
	}
}

// Insights derives prioritized observations from a sheet result. Error
// results and unknown types yield empty insights.
func (n *Narrator) Insights(result domain.AnalysisResult) *domain.Insights {
	switch r := result.(type) {
	case *domain.FindingsAnalysis:
		return n.findingsInsights(r)
	case *domain.MultiTenderAnalysis:
		return n.multiTenderInsights(r)
	case *domain.EntitySummaryAnalysis:
		return n.entityInsights(r)
	default:
		return domain.NewInsights()
	}
}

// say formats one of the phrase variants picked by the selector
func (n *Narrator) say(p phrase, args ...any) string {
	i := n.selector.Choose(len(p))
	if i < 0 || i >= len(p) {
		i = 0
	}
	return fmt.Sprintf(p[i], args...)
}

// money renders an amount with thousands separators and two decimals
func (n *Narrator) money(v float64) string {
	return n.currency + " " + message.NewPrinter(language.English).Sprintf("%.2f", v)
}

// moneyWhole renders an amount with thousands separators and no decimals
func (n *Narrator) moneyWhole(v float64) string {
	return n.currency + " " + message.NewPrinter(language.English).Sprintf("%.0f", v)
}

// num prints a value the shortest way that round-trips: 60 not 60.00
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// text accumulates summary lines
type text struct {
	lines []string
}

func (t *text) add(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// section starts a titled block separated by a blank line
func (t *text) section(format string, args ...any) {
	t.lines = append(t.lines, "")
	t.add(format, args...)
}

func (t *text) String() string {
	return strings.Join(t.lines, "\n")
}

// rankKeys orders map keys by score descending; equal scores sort by key so
// the output does not depend on map iteration order
func rankKeys[V any](m map[string]V, score func(V) float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return score(m[keys[i]]) > score(m[keys[j]])
	})
	return keys
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func countWhere[V any](m map[string]V, pred func(V) bool) int {
	n := 0
	for _, v := range m {
		if pred(v) {
			n++
		}
	}
	return n
}

func share(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

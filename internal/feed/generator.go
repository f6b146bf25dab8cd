package feed

import (
	"fmt"
	"math/rand"
	"time"
)

// Word pools for generated headlines
var (
	headlineVerbs = []string{
		"Ships", "Deprecates", "Rewrites", "Benchmarks", "Debugs",
		"Releases", "Profiles", "Migrates", "Refactors", "Documents",
	}
	headlineSubjects = []string{
		"the scheduler", "its render loop", "the diff engine", "a layout pass",
		"the event bus", "its cache layer", "the wire codec", "a worker pool",
		"the test harness", "its config loader",
	}
	headlineSources = []string{
		"upstream", "in a weekend", "for the third time", "behind a flag",
		"with zero allocations", "on a plane", "by accident", "live on stream",
	}
	authorNames = []string{
		"ada", "brin", "casey", "devon", "ellis", "frankie",
		"gray", "harper", "indy", "jules", "kit", "lane",
	}
)

// Generator produces deterministic pseudo-feed pages. It stands in for a
// remote feed: given the same seed it emits the same items, so demo runs
// and tests are reproducible.
type Generator struct {
	rng *rand.Rand
	seq int
}

// NewGenerator creates a generator for the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Newer produces n items published after the given time, most recent first.
func (g *Generator) Newer(after time.Time, n int) []Item {
	items := make([]Item, 0, n)
	base := time.Now()
	if base.Before(after) {
		base = after.Add(time.Minute)
	}
	for i := 0; i < n; i++ {
		items = append(items, g.item(base.Add(-time.Duration(i)*time.Minute)))
	}
	return items
}

// Older produces n items published before the given time, most recent first.
func (g *Generator) Older(before time.Time, n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		age := time.Duration(i+1) * 7 * time.Minute
		items = append(items, g.item(before.Add(-age)))
	}
	return items
}

func (g *Generator) item(published time.Time) Item {
	g.seq++
	author := authorNames[g.rng.Intn(len(authorNames))]
	title := fmt.Sprintf("%s %s",
		headlineVerbs[g.rng.Intn(len(headlineVerbs))],
		headlineSubjects[g.rng.Intn(len(headlineSubjects))],
	)
	if g.rng.Float64() < 0.4 {
		title += " " + headlineSources[g.rng.Intn(len(headlineSources))]
	}
	return Item{
		ID:        fmt.Sprintf("item-%06d", g.seq),
		Title:     title,
		Author:    author,
		Published: published,
	}
}

package community

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/land-resolver/internal/store"
)

func newTestMatcher(t *testing.T, communities map[string]int) *Matcher {
	t.Helper()
	logger := zap.NewNop()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	m := NewMatcher(st, logger)
	var entries []entry
	for name, tx := range communities {
		entries = append(entries, entry{
			norm:    normalizeName(name),
			summary: store.CommunitySummary{Name: name, TxCount: tx},
		})
	}
	m.entries = entries
	return m
}

func TestSearchExactBeatsEverything(t *testing.T) {
	m := newTestMatcher(t, map[string]int{
		"遠雄幸福成家": 40,
		"遠雄幸福":   5,
		"幸福家":    120,
	})
	got := m.Search("遠雄幸福", 10)
	if len(got) == 0 {
		t.Fatal("no results")
	}
	if got[0].Name != "遠雄幸福" || got[0].MatchType != MatchExact {
		t.Errorf("top = %q (%s), want exact 遠雄幸福", got[0].Name, got[0].MatchType)
	}
	if got[0].Score < 1000 {
		t.Errorf("exact score = %v, want >= 1000", got[0].Score)
	}
}

func TestSearchContainsRanksAboveFuzzy(t *testing.T) {
	m := newTestMatcher(t, map[string]int{
		"信義帝寶": 30, // contains the keyword
		"信羲":   80, // one character off, fuzzy at best
	})
	got := m.Search("信義", 10)
	if len(got) < 2 {
		t.Fatalf("want 2 results, got %d: %+v", len(got), got)
	}
	if got[0].Name != "信義帝寶" || got[0].MatchType != MatchContains {
		t.Errorf("top = %q (%s), want containment winner 信義帝寶", got[0].Name, got[0].MatchType)
	}
	if got[1].MatchType == MatchContains {
		t.Errorf("信羲雅築 classified as %s, want a weaker tier", got[1].MatchType)
	}
}

func TestSearchSubsequence(t *testing.T) {
	m := newTestMatcher(t, map[string]int{
		"遠雄大未來": 10,
	})
	got := m.Search("遠未來", 10)
	if len(got) != 1 || got[0].MatchType != MatchSubsequence {
		t.Fatalf("got %+v, want subsequence match", got)
	}
}

func TestSearchFuzzyEditDistance(t *testing.T) {
	m := newTestMatcher(t, map[string]int{
		"國泰萬囍": 15,
	})
	// One substituted character; max allowed distance for a 4-rune
	// keyword is 1.
	got := m.Search("國泰萬禧", 10)
	if len(got) != 1 || got[0].MatchType != MatchFuzzy {
		t.Fatalf("got %+v, want fuzzy match", got)
	}

	// Scrambled character order blows the edit-distance budget but the
	// common-character tier still catches it.
	if got := m.Search("泰萬國囍", 10); len(got) != 1 {
		t.Fatalf("got %+v, want similar-tier fallback", got)
	} else if got[0].MatchType != MatchSimilar {
		t.Errorf("match type = %s, want %s", got[0].MatchType, MatchSimilar)
	}

	// Two substitutions and too few shared characters match nothing.
	if got := m.Search("國賓千禧", 10); len(got) != 0 {
		t.Errorf("got %+v, want no match", got)
	}
}

func TestSearchNormalization(t *testing.T) {
	m := newTestMatcher(t, map[string]int{
		"ＴＨＥ ＰＡＬＡＣＥ": 8,
	})
	got := m.Search("the palace", 10)
	if len(got) != 1 || got[0].MatchType != MatchExact {
		t.Fatalf("got %+v, want width/case-folded exact match", got)
	}
}

func TestSearchEmptyKeyword(t *testing.T) {
	m := newTestMatcher(t, map[string]int{"遠雄幸福": 5})
	if got := m.Search("   ", 10); got != nil {
		t.Errorf("blank keyword returned %+v", got)
	}
}

func TestSearchTopN(t *testing.T) {
	m := newTestMatcher(t, map[string]int{
		"幸福一期": 1, "幸福二期": 2, "幸福三期": 3, "幸福四期": 4,
	})
	got := m.Search("幸福", 2)
	if len(got) != 2 {
		t.Errorf("topN not applied: %d results", len(got))
	}
}

func TestRefresh(t *testing.T) {
	logger := zap.NewNop()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	m := NewMatcher(st, logger)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Count() != 0 {
		t.Errorf("empty table produced %d entries", m.Count())
	}
}

func TestIsSubsequence(t *testing.T) {
	cases := []struct {
		query, target string
		want          bool
	}{
		{"遠未來", "遠雄大未來", true},
		{"未遠", "遠雄大未來", false},
		{"", "遠雄", true},
		{"遠雄大未來X", "遠雄大未來", false},
	}
	for _, c := range cases {
		if got := isSubsequence(c.query, c.target); got != c.want {
			t.Errorf("isSubsequence(%q, %q) = %v, want %v", c.query, c.target, got, c.want)
		}
	}
}

package resolver

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/land-resolver/internal/normalizer"
)

// MaxVariants caps the Cartesian expansion of a query's numeric tokens.
// Beyond this the LIKE tier degrades into a table scan of OR terms, so
// expansion stops early and keeps the most literal spellings.
const MaxVariants = 64

// maxLikeTerms limits how many variants one LIKE query may OR together.
const maxLikeTerms = 8

var (
	tokenPat = regexp.MustCompile(`(\d+|[^\d]+)`)
	cnNumPat = regexp.MustCompile(`([零〇一兩二三四五六七八九十百千]+)([樓層號巷弄段之]|F\d|F$)`)
)

type token struct {
	text     string
	numeric  bool
	arabic   int
}

// NumberVariants returns every spelling of a house-number-like token:
// half-width, full-width, and the Chinese numeral forms (廿 contraction
// included for 20-29).
func NumberVariants(numStr string) []string {
	normalized := normalizer.FullwidthToHalfwidth(numStr)
	seen := map[string]struct{}{normalized: {}}
	seen[normalizer.HalfwidthToFullwidth(normalized)] = struct{}{}

	if n, err := strconv.Atoi(normalized); err == nil {
		for _, cn := range normalizer.ArabicToChinese(n) {
			seen[cn] = struct{}{}
		}
		if n >= 20 && n <= 29 {
			v := "廿"
			if n%10 > 0 {
				v += []string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九"}[n%10]
			}
			seen[v] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// tokenize splits an address into digit runs, Chinese numerals followed by
// an address unit, and literal text.
func tokenize(address string) []token {
	normalized := normalizer.FullwidthToHalfwidth(address)
	var tokens []token
	for _, m := range tokenPat.FindAllString(normalized, -1) {
		if m[0] >= '0' && m[0] <= '9' {
			tokens = append(tokens, token{text: m, numeric: true})
			continue
		}
		tokens = append(tokens, splitChineseNumerals(m)...)
	}
	return tokens
}

func splitChineseNumerals(text string) []token {
	var tokens []token
	pos := 0
	for _, loc := range cnNumPat.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3] // numeral group only
		cn := text[start:end]
		v, ok := normalizer.ChineseNumeralToInt(cn)
		if start > pos {
			tokens = append(tokens, token{text: text[pos:start]})
		}
		if ok && v > 0 {
			tokens = append(tokens, token{text: cn, numeric: true, arabic: v})
		} else {
			tokens = append(tokens, token{text: cn})
		}
		pos = end
	}
	if pos < len(text) {
		tokens = append(tokens, token{text: text[pos:]})
	}
	return tokens
}

// AddressVariants expands a query address into its spelling variants,
// capped at MaxVariants. The literal input and its width-folded form are
// always present.
func AddressVariants(address string) []string {
	tokens := tokenize(address)

	candidates := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		switch {
		case tok.numeric && tok.arabic > 0:
			vs := map[string]struct{}{tok.text: {}}
			arabic := strconv.Itoa(tok.arabic)
			vs[arabic] = struct{}{}
			vs[normalizer.HalfwidthToFullwidth(arabic)] = struct{}{}
			for _, cn := range normalizer.ArabicToChinese(tok.arabic) {
				vs[cn] = struct{}{}
			}
			list := make([]string, 0, len(vs))
			for v := range vs {
				list = append(list, v)
			}
			sort.Strings(list)
			candidates = append(candidates, list)
		case tok.numeric:
			candidates = append(candidates, NumberVariants(tok.text))
		default:
			candidates = append(candidates, []string{tok.text})
		}
	}

	// The literal input and its width-folded form always survive the cap.
	seen := map[string]struct{}{}
	var combos []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			combos = append(combos, v)
		}
	}
	add(address)
	add(normalizer.FullwidthToHalfwidth(address))

	var build func(i int, prefix string)
	build = func(i int, prefix string) {
		if len(combos) >= MaxVariants {
			return
		}
		if i == len(candidates) {
			add(prefix)
			return
		}
		for _, v := range candidates[i] {
			build(i+1, prefix+v)
		}
	}
	build(0, "")

	sort.Strings(combos)
	return combos
}

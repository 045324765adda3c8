package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Normalizer converts Taiwanese addresses into the canonical storage form:
// half-width everywhere, 臺→台, Chinese numerals before address suffixes
// turned into Arabic digits, and Arabic road sections turned back into
// Chinese (3段 → 三段). Normalize is idempotent.
type Normalizer struct {
	cnNumBase  *regexp.Regexp
	cnNumQuery *regexp.Regexp
	section    *regexp.Regexp
}

const chineseNumChars = "○零一壹二貳兩三參叁四肆五伍六陸七柒八捌九玖十拾百佰千仟廿"

// NewNormalizer compiles the rule patterns once.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		cnNumBase:  regexp.MustCompile(`([` + chineseNumChars + `]+)(樓|層|號|巷|弄|之|鄰)`),
		cnNumQuery: regexp.MustCompile(`([` + chineseNumChars + `]+)(樓|層|號|巷|弄|之|鄰|F|f)`),
		section:    regexp.MustCompile(`(\d+)段`),
	}
}

// Normalize produces the storage form of an address.
func (n *Normalizer) Normalize(text string) string {
	return n.normalize(text, false)
}

// NormalizeQuery is Normalize in query mode: input is trimmed and F/f is
// accepted as a floor suffix ("十二F" → "12F").
func (n *Normalizer) NormalizeQuery(text string) string {
	return n.normalize(strings.TrimSpace(text), true)
}

func (n *Normalizer) normalize(text string, forQuery bool) string {
	if text == "" {
		return ""
	}
	text = FullwidthToHalfwidth(text)
	text = strings.ReplaceAll(text, "巿", "市") // 巿 (U+5DFF) is a common OCR variant
	text = strings.ReplaceAll(text, "臺", "台")

	pat := n.cnNumBase
	if forQuery {
		pat = n.cnNumQuery
	}
	text = pat.ReplaceAllStringFunc(text, func(m string) string {
		sub := pat.FindStringSubmatch(m)
		if v, ok := ChineseNumeralToInt(sub[1]); ok {
			return strconv.Itoa(v) + sub[2]
		}
		return m
	})

	// Road sections stay Chinese in storage form.
	text = n.section.ReplaceAllStringFunc(text, func(m string) string {
		digits := m[:len(m)-len("段")]
		if cn, ok := sectionNumerals[digits]; ok {
			return cn + "段"
		}
		return m
	})
	return text
}

var sectionNumerals = map[string]string{
	"1": "一", "2": "二", "3": "三", "4": "四", "5": "五",
	"6": "六", "7": "七", "8": "八", "9": "九", "10": "十",
}

// FullwidthToHalfwidth folds the full-width ASCII block (and ideographic
// space) down to half-width. CJK ideographs have no narrow form and pass
// through untouched.
func FullwidthToHalfwidth(text string) string {
	return width.Narrow.String(text)
}

// HalfwidthToFullwidth widens ASCII digits only, for variant generation.
func HalfwidthToFullwidth(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r - '0' + 0xFF10)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

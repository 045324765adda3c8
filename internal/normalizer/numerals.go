package normalizer

import (
	"strconv"
	"strings"
)

// Digit values, covering the formal/banker variants seen in deeds.
var chineseDigits = map[rune]int{
	'○': 0, '零': 0, '〇': 0,
	'一': 1, '壹': 1,
	'二': 2, '貳': 2, '兩': 2,
	'三': 3, '參': 3, '叁': 3,
	'四': 4, '肆': 4,
	'五': 5, '伍': 5,
	'六': 6, '陸': 6,
	'七': 7, '柒': 7,
	'八': 8, '捌': 8,
	'九': 9, '玖': 9,
}

var chineseUnits = map[rune]int{
	'十': 10, '拾': 10,
	'百': 100, '佰': 100,
	'千': 1000, '仟': 1000,
}

var cnDigitRunes = []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

// ChineseNumeralToInt parses a Chinese numeral string. Both the positional
// form (一二三 → 123) and the standard form (二十三 → 23, 貳拾參 → 23) are
// accepted, as are plain Arabic digits. 廿 is the contracted twenty.
func ChineseNumeralToInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}

	// Positional: every rune is a bare digit 零-九.
	positional := true
	var posDigits strings.Builder
	for _, r := range s {
		d, ok := digitValueBasic(r)
		if !ok {
			positional = false
			break
		}
		posDigits.WriteByte(byte('0' + d))
	}
	if positional {
		v, err := strconv.Atoi(posDigits.String())
		if err == nil {
			return v, true
		}
	}

	// Standard form with 十/百/千 units.
	total, current := 0, 0
	for _, r := range s {
		if r == '廿' {
			total += 20
			current = 0
			continue
		}
		if d, ok := chineseDigits[r]; ok {
			current = d
			continue
		}
		if u, ok := chineseUnits[r]; ok {
			if current == 0 {
				current = 1
			}
			total += current * u
			current = 0
			continue
		}
		return 0, false
	}
	total += current
	if total > 0 {
		return total, true
	}
	switch strings.TrimSpace(s) {
	case "零", "○", "〇":
		return 0, true
	}
	return 0, false
}

// digitValueBasic only accepts the plain 零一...九 runes used by the
// positional form (variants like 壹 never appear positionally).
func digitValueBasic(r rune) (int, bool) {
	for i, d := range cnDigitRunes {
		if string(r) == d {
			return i, true
		}
	}
	return 0, false
}

// ArabicToChinese returns the Chinese numeral spellings of n used when
// expanding search variants: the positional form, the standard form, and
// the 十X / 一十X teen variants. Empty outside 1..9999.
func ArabicToChinese(n int) []string {
	if n <= 0 || n > 9999 {
		return nil
	}
	seen := map[string]struct{}{}

	var positional strings.Builder
	for _, c := range strconv.Itoa(n) {
		positional.WriteString(cnDigitRunes[c-'0'])
	}
	seen[positional.String()] = struct{}{}

	thousands := n / 1000
	hundreds := (n % 1000) / 100
	tens := (n % 100) / 10
	units := n % 10

	var std strings.Builder
	if thousands > 0 {
		std.WriteString(cnDigitRunes[thousands] + "千")
	}
	if hundreds > 0 {
		std.WriteString(cnDigitRunes[hundreds] + "百")
	} else if thousands > 0 && (tens > 0 || units > 0) {
		std.WriteString("零")
	}
	if tens > 0 {
		if tens == 1 && thousands == 0 && hundreds == 0 {
			std.WriteString("十")
		} else {
			std.WriteString(cnDigitRunes[tens] + "十")
		}
	} else if (thousands > 0 || hundreds > 0) && units > 0 {
		std.WriteString("零")
	}
	if units > 0 {
		std.WriteString(cnDigitRunes[units])
	}
	seen[std.String()] = struct{}{}

	if n >= 10 && n <= 19 {
		suffix := ""
		if units > 0 {
			suffix = cnDigitRunes[units]
		}
		seen["一十"+suffix] = struct{}{}
		seen["十"+suffix] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	return out
}

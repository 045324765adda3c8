package normalizer

import (
	"sort"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"fullwidth digits", "台北市中山路１２３號", "台北市中山路123號"},
		{"taiwan variant", "臺北市臺中路5號", "台北市台中路5號"},
		{"market variant", "台北巿中山區", "台北市中山區"},
		{"chinese floor", "中山北路二段36號五樓", "中山北路二段36號5樓"},
		{"banker numerals", "信義路貳拾參號", "信義路23號"},
		{"positional numerals", "一二三號", "123號"},
		{"lane alley", "三民路二十九巷五弄", "三民路29巷5弄"},
		{"arabic section", "忠孝東路3段10號", "忠孝東路三段10號"},
		{"sub number", "信義路五十三之二號", "信義路53之2號"},
		{"neighborhood", "大安里十五鄰", "大安里15鄰"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer()
	inputs := []string{
		"臺北市松山區三民路２９巷五號三樓",
		"新北市板橋區文化路一段23號12樓之8",
		"高雄市三民區建工路415巷2弄7號",
		"忠孝東路3段十號",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeQuery(t *testing.T) {
	n := NewNormalizer()

	cases := []struct{ in, want string }{
		{"  中山北路五段 十二F ", "中山北路五段 12F"},
		{"三民路29巷五f", "三民路29巷5f"},
	}
	for _, tc := range cases {
		if got := n.NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChineseNumeralToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"123", 123, true},
		{"一二三", 123, true},
		{"二十三", 23, true},
		{"貳拾參", 23, true},
		{"一百二十三", 123, true},
		{"十", 10, true},
		{"十五", 15, true},
		{"一十五", 15, true},
		{"廿五", 25, true},
		{"兩百", 200, true},
		{"零", 0, true},
		{"〇", 0, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ChineseNumeralToInt(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ChineseNumeralToInt(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestArabicToChinese(t *testing.T) {
	got := ArabicToChinese(23)
	sort.Strings(got)
	want := map[string]bool{"二三": false, "二十三": false}
	for _, v := range got {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, seen := range want {
		if !seen {
			t.Errorf("ArabicToChinese(23) missing variant %q, got %v", v, got)
		}
	}

	teens := ArabicToChinese(15)
	hasShort, hasLong := false, false
	for _, v := range teens {
		if v == "十五" {
			hasShort = true
		}
		if v == "一十五" {
			hasLong = true
		}
	}
	if !hasShort || !hasLong {
		t.Errorf("ArabicToChinese(15) missing teen variants, got %v", teens)
	}

	if out := ArabicToChinese(0); out != nil {
		t.Errorf("ArabicToChinese(0) = %v, want nil", out)
	}
	if out := ArabicToChinese(10000); out != nil {
		t.Errorf("ArabicToChinese(10000) = %v, want nil", out)
	}
}

package parser

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/land-resolver/app/models"
	"github.com/land-resolver/internal/normalizer"
)

func newTestParser() *Parser {
	return NewParser(normalizer.NewNormalizer())
}

func TestParse(t *testing.T) {
	p := newTestParser()

	cases := []struct {
		name string
		in   string
		want models.ParsedAddress
	}{
		{
			name: "full address with lane and floor",
			in:   "台北市松山區三民路29巷5號3樓",
			want: models.ParsedAddress{
				CountyCity: "台北市", District: "松山區",
				Street: "三民路", Lane: "29", Number: "5", Floor: "3",
			},
		},
		{
			name: "floor scoped sub number",
			in:   "新北市板橋區文化路一段53號12樓之8",
			want: models.ParsedAddress{
				CountyCity: "新北市", District: "板橋區",
				Street: "文化路一段", Number: "53", Floor: "12", FloorSubNumber: "8",
			},
		},
		{
			name: "door scoped sub number",
			in:   "基隆市中正區新豐街486號之5",
			want: models.ParsedAddress{
				CountyCity: "基隆市", District: "中正區",
				Street: "新豐街", Number: "486", SubNumber: "5",
			},
		},
		{
			name: "sub number before door suffix",
			in:   "台中市西屯區甘肅路一段37之2號",
			want: models.ParsedAddress{
				CountyCity: "台中市", District: "西屯區",
				Street: "甘肅路一段", Number: "37", SubNumber: "2",
			},
		},
		{
			name: "old county name",
			in:   "台北縣板橋市文化路100號",
			want: models.ParsedAddress{
				CountyCity: "新北市", District: "板橋市",
				Street: "文化路", Number: "100",
			},
		},
		{
			name: "village and neighborhood dropped from street",
			in:   "宜蘭縣羅東鎮大新里10鄰中山路三段100號",
			want: models.ParsedAddress{
				CountyCity: "宜蘭縣", District: "羅東鎮", Village: "大新里",
				Neighborhood: "10", Street: "中山路三段", Number: "100",
			},
		},
		{
			name: "city inferred from unambiguous district",
			in:   "松山區三民路29巷5號",
			want: models.ParsedAddress{
				CountyCity: "台北市", District: "松山區",
				Street: "三民路", Lane: "29", Number: "5",
			},
		},
		{
			name: "ambiguous district stays cityless",
			in:   "中山區民權路10號",
			want: models.ParsedAddress{
				District: "中山區", Street: "民權路", Number: "10",
			},
		},
		{
			name: "rural address without road keyword",
			in:   "澎湖縣西嶼鄉池東村47號",
			want: models.ParsedAddress{
				CountyCity: "澎湖縣", District: "西嶼鄉",
				Street: "池東村", Number: "47",
			},
		},
		{
			name: "alley",
			in:   "高雄市三民區建工路415巷2弄7號",
			want: models.ParsedAddress{
				CountyCity: "高雄市", District: "三民區",
				Street: "建工路", Lane: "415", Alley: "2", Number: "7",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Parse(tc.in, "")
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("Parse(%q)\n got  %+v\n want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseRejectsCadastralLot(t *testing.T) {
	p := newTestParser()
	_, err := p.Parse("台南市新化區那拔里礁坑子90-1地號", "")
	if !errors.Is(err, ErrLotNumber) {
		t.Errorf("want ErrLotNumber, got %v", err)
	}
}

func TestParseDistrictHint(t *testing.T) {
	p := newTestParser()
	got, err := p.Parse("三民路29巷5號", "松山區")
	if err != nil {
		t.Fatal(err)
	}
	if got.District != "松山區" || got.CountyCity != "台北市" {
		t.Errorf("district hint not applied: %+v", got)
	}
}

func TestParseQuery(t *testing.T) {
	p := newTestParser()

	cases := []struct {
		name string
		in   string
		want models.ParsedAddress
	}{
		{
			name: "query floor suffix F",
			in:   "松山區三民路29巷5號3F",
			want: models.ParsedAddress{
				District: "松山區", Street: "三民路",
				Lane: "29", Number: "5", Floor: "3",
			},
		},
		{
			name: "no district inference in query mode",
			in:   "松山區三民路29巷5號",
			want: models.ParsedAddress{
				District: "松山區", Street: "三民路", Lane: "29", Number: "5",
			},
		},
		{
			name: "fullwidth chinese numerals",
			in:   "台北市中山北路二段三十六號五樓",
			want: models.ParsedAddress{
				CountyCity: "台北市", Street: "中山北路二段",
				Number: "36", Floor: "5",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.ParseQuery(tc.in)
			if got != tc.want {
				t.Errorf("ParseQuery(%q)\n got  %+v\n want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFloorLabel(t *testing.T) {
	p := newTestParser()
	got, err := p.Parse("台北市松山區三民路29巷5號3樓", "")
	if err != nil {
		t.Fatal(err)
	}
	if got.FloorLabel() != "3F" {
		t.Errorf("FloorLabel() = %q, want 3F", got.FloorLabel())
	}

	got2, _ := p.Parse("新北市板橋區文化路一段53號12樓之8", "")
	if got2.FloorLabel() != "12F-8" {
		t.Errorf("FloorLabel() = %q, want 12F-8", got2.FloorLabel())
	}
}

type fakeVolumeStats struct {
	volumes map[string]map[string]int
	err     error
}

func (f *fakeVolumeStats) DistrictVolume(_ context.Context, district string) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.volumes[district], nil
}

func TestDisambiguator(t *testing.T) {
	logger := zap.NewNop()

	t.Run("explicit city wins", func(t *testing.T) {
		d := NewDisambiguator(nil, logger)
		if got := d.ResolveCity(context.Background(), "中山區", "基隆市", "A"); got != "基隆市" {
			t.Errorf("got %q, want 基隆市", got)
		}
	})

	t.Run("static table for unambiguous district", func(t *testing.T) {
		d := NewDisambiguator(nil, logger)
		if got := d.ResolveCity(context.Background(), "板橋區", "", ""); got != "新北市" {
			t.Errorf("got %q, want 新北市", got)
		}
	})

	t.Run("city code resolves ambiguous district", func(t *testing.T) {
		d := NewDisambiguator(nil, logger)
		if got := d.ResolveCity(context.Background(), "中山區", "", "A"); got != "台北市" {
			t.Errorf("got %q, want 台北市", got)
		}
	})

	t.Run("tainan-only names still disambiguated", func(t *testing.T) {
		d := NewDisambiguator(nil, logger)
		if got := d.ResolveCity(context.Background(), "安平區", "", ""); got != "" {
			t.Errorf("got %q, want empty without a signal", got)
		}
		if got := d.ResolveCity(context.Background(), "安平區", "", "D"); got != "台南市" {
			t.Errorf("got %q, want 台南市 from city code", got)
		}
	})

	t.Run("volume resolves 中西區", func(t *testing.T) {
		stats := &fakeVolumeStats{volumes: map[string]map[string]int{
			"中西區": {"台南市": 300},
		}}
		d := NewDisambiguator(stats, logger)
		if got := d.ResolveCity(context.Background(), "中西區", "", ""); got != "台南市" {
			t.Errorf("got %q, want 台南市", got)
		}
	})

	t.Run("volume heuristic", func(t *testing.T) {
		stats := &fakeVolumeStats{volumes: map[string]map[string]int{
			"中山區": {"台北市": 1200, "基隆市": 40},
		}}
		d := NewDisambiguator(stats, logger)
		if got := d.ResolveCity(context.Background(), "中山區", "", ""); got != "台北市" {
			t.Errorf("got %q, want 台北市", got)
		}
	})

	t.Run("tied volume stays unresolved", func(t *testing.T) {
		stats := &fakeVolumeStats{volumes: map[string]map[string]int{
			"中山區": {"台北市": 50, "基隆市": 50},
		}}
		d := NewDisambiguator(stats, logger)
		if got := d.ResolveCity(context.Background(), "中山區", "", ""); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("old county name normalized", func(t *testing.T) {
		d := NewDisambiguator(nil, logger)
		if got := d.ResolveCity(context.Background(), "", "台北縣", ""); got != "新北市" {
			t.Errorf("got %q, want 新北市", got)
		}
	})
}

package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	t.Run("built-ins are registered", func(t *testing.T) {
		for _, name := range []string{"lowercase", "trim", "collapse_whitespace", "remove_whitespace", "nbuilding", "nstation", "ward"} {
			_, ok := Get(name)
			assert.True(t, ok, name)
		}
	})

	t.Run("unknown normalizer passes value through", func(t *testing.T) {
		assert.Equal(t, "Hello", Apply("Hello", "nonexistent"))
	})

	t.Run("chain applies in order", func(t *testing.T) {
		assert.Equal(t, "hello world", ApplyChain("  Hello   World  ", "collapse_whitespace", "lowercase"))
	})
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "渋谷", Trim("　渋谷 "))
	assert.Equal(t, "", Trim("　　"))
}

func TestNormalizeBuildingName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"strips corner brackets", "【値下げ】パークタワー渋谷", "パークタワー渋谷"},
		{"strips fullwidth parens", "パークタワー渋谷（3階・角部屋）", "パークタワー渋谷"},
		{"strips ascii parens", "Park Tower Shibuya (3F)", "parktowershibuya"},
		{"removes whitespace", "パークタワー　渋谷", "パークタワー渋谷"},
		{"lowercases latin", "PARK TOWER", "parktower"},
		{"same building different agents", "【仲介手数料無料】グランドメゾン白金", "グランドメゾン白金"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBuildingName(tt.input))
		})
	}
}

func TestExtractWard(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		expected string
	}{
		{"full address", "東京都渋谷区神南1丁目", "渋谷区"},
		{"designated city keeps the city prefix", "大阪府大阪市北区梅田", "大阪市北区"},
		{"bare ward", "渋谷区神南1丁目", "渋谷区"},
		{"no ward", "北海道札幌市手稲", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractWard(tt.address))
		})
	}
}

func TestNormalizeStation(t *testing.T) {
	assert.Equal(t, "JR山手線渋谷", NormalizeStation("JR山手線「渋谷」"))
	assert.Equal(t, "JR山手線渋谷", NormalizeStation(" JR山手線 渋谷 "))
}

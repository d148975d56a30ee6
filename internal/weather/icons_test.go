package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKnownCodes(t *testing.T) {
	cases := map[int]string{
		0:  "☀️ 晴天",
		1:  "🌤️ 晴れ",
		2:  "⛅ 曇りがち",
		3:  "☁️ 曇り",
		45: "🌫️ 霧",
		48: "🌫️ 霧",
		51: "🌦️ 小雨",
		53: "🌦️ 小雨",
		55: "🌧️ 雨",
		61: "🌧️ 雨",
		63: "🌧️ 雨",
		65: "🌧️ 強い雨",
		71: "❄️ 雪",
		73: "❄️ 雪",
		75: "❄️ 強い雪",
		80: "🌦️ にわか雨",
		81: "🌧️ にわか雨",
		82: "⛈️ 激しい雨",
	}
	for code, want := range cases {
		assert.Equal(t, want, Classify(code).Label(), "code %d", code)
	}
}

func TestClassifyExtendedCodes(t *testing.T) {
	cases := map[int]string{
		56: "🌧️ 着氷性の霧雨",
		57: "🌧️ 着氷性の霧雨",
		66: "🌧️ 着氷性の雨",
		67: "🌧️ 着氷性の雨",
		77: "❄️ 雪あられ",
		85: "🌨️ にわか雪",
		86: "🌨️ にわか雪",
		95: "⛈️ 雷雨",
		96: "⛈️ 雹を伴う雷雨",
		99: "⛈️ 雹を伴う雷雨",
	}
	for code, want := range cases {
		assert.Equal(t, want, Classify(code).Label(), "code %d", code)
		assert.NotEqual(t, "❓ Unknown", ClassifyIn(LangEnglish, code).Label(), "code %d", code)
	}
	assert.Equal(t, "⛈️ Thunderstorm", ClassifyIn(LangEnglish, 95).Label())
}

func TestClassifyUnknownCodes(t *testing.T) {
	for _, code := range []int{-1, 4, 44, 58, 94, 97, 100, 1000} {
		assert.Equal(t, "❓ 不明", Classify(code).Label(), "code %d", code)
		assert.Equal(t, "❓ Unknown", ClassifyIn(LangEnglish, code).Label(), "code %d", code)
	}
}

func TestClassifyInEnglish(t *testing.T) {
	assert.Equal(t, Condition{Icon: "⛈️", Text: "Violent showers"}, ClassifyIn(LangEnglish, 82))
	// Unsupported languages fall back to the default table.
	assert.Equal(t, Classify(0), ClassifyIn(Language("fr"), 0))
}

func TestMatchLanguage(t *testing.T) {
	assert.Equal(t, LangEnglish, MatchLanguage("en-US,en;q=0.9"))
	assert.Equal(t, LangJapanese, MatchLanguage("ja-JP"))
	assert.Equal(t, LangEnglish, MatchLanguage("en"))
	assert.Equal(t, DefaultLanguage, MatchLanguage(""))
	assert.Equal(t, DefaultLanguage, MatchLanguage())
}

func TestSplitLabel(t *testing.T) {
	icon, text := SplitLabel("🌦️ にわか雨")
	assert.Equal(t, "🌦️", icon)
	assert.Equal(t, "にわか雨", text)

	icon, text = SplitLabel("⛈️ Violent showers")
	assert.Equal(t, "⛈️", icon)
	assert.Equal(t, "Violent showers", text)

	icon, text = SplitLabel("❓")
	assert.Equal(t, "❓", icon)
	assert.Empty(t, text)
}

package weather

import (
	"strings"

	"golang.org/x/text/language"
)

// Language selects the label set used by Classify.
type Language string

const (
	LangJapanese Language = "ja"
	LangEnglish  Language = "en"

	DefaultLanguage = LangJapanese
)

var (
	supportedTags = []language.Tag{language.Japanese, language.English}
	supportedLang = []Language{LangJapanese, LangEnglish}
	langMatcher   = language.NewMatcher(supportedTags)
)

// MatchLanguage picks the best supported language for the given
// Accept-Language style strings, falling back to DefaultLanguage.
func MatchLanguage(prefs ...string) Language {
	var nonEmpty []string
	for _, p := range prefs {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return DefaultLanguage
	}
	_, idx := language.MatchStrings(langMatcher, nonEmpty...)
	return supportedLang[idx]
}

// Condition is the display form of a weather code: an icon glyph and a short category.
type Condition struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Label renders the condition as "<icon> <text>".
func (c Condition) Label() string {
	return c.Icon + " " + c.Text
}

// WMO weather interpretation codes as used by Open-Meteo.
var conditionsJA = map[int]Condition{
	0:  {"☀️", "晴天"},
	1:  {"🌤️", "晴れ"},
	2:  {"⛅", "曇りがち"},
	3:  {"☁️", "曇り"},
	45: {"🌫️", "霧"},
	48: {"🌫️", "霧"},
	51: {"🌦️", "小雨"},
	53: {"🌦️", "小雨"},
	55: {"🌧️", "雨"},
	61: {"🌧️", "雨"},
	63: {"🌧️", "雨"},
	65: {"🌧️", "強い雨"},
	71: {"❄️", "雪"},
	73: {"❄️", "雪"},
	75: {"❄️", "強い雪"},
	80: {"🌦️", "にわか雨"},
	81: {"🌧️", "にわか雨"},
	82: {"⛈️", "激しい雨"},

	56: {"🌧️", "着氷性の霧雨"},
	57: {"🌧️", "着氷性の霧雨"},
	66: {"🌧️", "着氷性の雨"},
	67: {"🌧️", "着氷性の雨"},
	77: {"❄️", "雪あられ"},
	85: {"🌨️", "にわか雪"},
	86: {"🌨️", "にわか雪"},
	95: {"⛈️", "雷雨"},
	96: {"⛈️", "雹を伴う雷雨"},
	99: {"⛈️", "雹を伴う雷雨"},
}

var conditionsEN = map[int]Condition{
	0:  {"☀️", "Clear"},
	1:  {"🌤️", "Mostly clear"},
	2:  {"⛅", "Partly cloudy"},
	3:  {"☁️", "Cloudy"},
	45: {"🌫️", "Fog"},
	48: {"🌫️", "Fog"},
	51: {"🌦️", "Drizzle"},
	53: {"🌦️", "Drizzle"},
	55: {"🌧️", "Rain"},
	61: {"🌧️", "Rain"},
	63: {"🌧️", "Rain"},
	65: {"🌧️", "Heavy rain"},
	71: {"❄️", "Snow"},
	73: {"❄️", "Snow"},
	75: {"❄️", "Heavy snow"},
	80: {"🌦️", "Showers"},
	81: {"🌧️", "Showers"},
	82: {"⛈️", "Violent showers"},

	56: {"🌧️", "Freezing drizzle"},
	57: {"🌧️", "Freezing drizzle"},
	66: {"🌧️", "Freezing rain"},
	67: {"🌧️", "Freezing rain"},
	77: {"❄️", "Snow grains"},
	85: {"🌨️", "Snow showers"},
	86: {"🌨️", "Snow showers"},
	95: {"⛈️", "Thunderstorm"},
	96: {"⛈️", "Thunderstorm with hail"},
	99: {"⛈️", "Thunderstorm with hail"},
}

var unknownCondition = map[Language]Condition{
	LangJapanese: {"❓", "不明"},
	LangEnglish:  {"❓", "Unknown"},
}

// Classify maps a weather code to its default-language condition.
// Codes outside the table map to the unknown sentinel.
func Classify(code int) Condition {
	return ClassifyIn(DefaultLanguage, code)
}

// ClassifyIn is Classify for a specific label language.
func ClassifyIn(lang Language, code int) Condition {
	table := conditionsJA
	if lang == LangEnglish {
		table = conditionsEN
	} else {
		lang = LangJapanese
	}
	if c, ok := table[code]; ok {
		return c
	}
	return unknownCondition[lang]
}

// SplitLabel splits "<icon> <text>" into its two parts. A label without a
// space is returned as icon only.
func SplitLabel(label string) (icon, text string) {
	icon, text, _ = strings.Cut(strings.TrimSpace(label), " ")
	return icon, strings.TrimSpace(text)
}

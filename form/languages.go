package form

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// OtherLanguage is the survey code for a mother tongue not in the list.
const OtherLanguage = 121

// languageCodes maps survey mother-tongue codes to BCP 47 tags, in survey
// order.
var languageCodes = []struct {
	code int
	tag  string
}{
	{1, "fr"}, {15, "de"}, {20, "en"}, {37, "ar"}, {51, "eu"}, {52, "bg"},
	{53, "ca"}, {54, "zh"}, {59, "ko"}, {60, "hr"}, {62, "da"}, {63, "es"},
	{82, "et"}, {83, "fi"}, {84, "gl"}, {85, "el"}, {86, "he"}, {87, "hi"},
	{88, "hu"}, {89, "id"}, {90, "it"}, {92, "ja"}, {93, "kk"}, {94, "lv"},
	{95, "lt"}, {96, "ms"}, {98, "nl"}, {100, "no"}, {101, "pl"}, {102, "pt"},
	{104, "ro"}, {106, "ru"}, {108, "sr"}, {112, "sk"}, {113, "sl"}, {114, "sv"},
	{116, "cs"}, {117, "th"}, {118, "tr"}, {119, "uk"}, {120, "vi"},
}

// surveyLabels holds the codes whose survey wording differs from the CLDR
// English name ("no" resolves to Norwegian Bokmål).
var surveyLabels = map[int]string{
	37:  "Arab",
	100: "Norwegian",
}

func languageOptions() []Option {
	namer := display.English.Languages()
	options := make([]Option, 0, len(languageCodes)+1)
	for _, lang := range languageCodes {
		label, ok := surveyLabels[lang.code]
		if !ok {
			label = namer.Name(language.MustParse(lang.tag))
		}
		options = append(options, Option{Value: lang.code, Label: label})
	}
	return append(options, Option{Value: OtherLanguage, Label: "Other"})
}

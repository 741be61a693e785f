package language

import (
	"slices"
	"strings"
)

// Language is a language the image model can be asked to write.
type Language struct {
	Code string
	Name string
}

// Languages is sorted by Name. Names are what the prompts carry.
var Languages = []Language{
	{Code: "af", Name: "Afrikaans"},
	{Code: "sq", Name: "Albanian"},
	{Code: "am", Name: "Amharic"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hy", Name: "Armenian"},
	{Code: "as", Name: "Assamese"},
	{Code: "az", Name: "Azerbaijani"},
	{Code: "eu", Name: "Basque"},
	{Code: "be", Name: "Belarusian"},
	{Code: "bn", Name: "Bengali"},
	{Code: "bs", Name: "Bosnian"},
	{Code: "bg", Name: "Bulgarian"},
	{Code: "ca", Name: "Catalan"},
	{Code: "ceb", Name: "Cebuano"},
	{Code: "zh-Hans", Name: "Chinese (Simplified)"},
	{Code: "zh-Hant", Name: "Chinese (Traditional)"},
	{Code: "co", Name: "Corsican"},
	{Code: "hr", Name: "Croatian"},
	{Code: "cs", Name: "Czech"},
	{Code: "da", Name: "Danish"},
	{Code: "dv", Name: "Dhivehi"},
	{Code: "nl", Name: "Dutch"},
	{Code: "en", Name: "English"},
	{Code: "eo", Name: "Esperanto"},
	{Code: "et", Name: "Estonian"},
	{Code: "fil", Name: "Filipino"},
	{Code: "fi", Name: "Finnish"},
	{Code: "fr", Name: "French"},
	{Code: "fy", Name: "Frisian"},
	{Code: "gl", Name: "Galician"},
	{Code: "ka", Name: "Georgian"},
	{Code: "de", Name: "German"},
	{Code: "el", Name: "Greek"},
	{Code: "gu", Name: "Gujarati"},
	{Code: "ht", Name: "Haitian Creole"},
	{Code: "ha", Name: "Hausa"},
	{Code: "haw", Name: "Hawaiian"},
	{Code: "iw", Name: "Hebrew"},
	{Code: "hi", Name: "Hindi"},
	{Code: "hmn", Name: "Hmong"},
	{Code: "hu", Name: "Hungarian"},
	{Code: "is", Name: "Icelandic"},
	{Code: "ig", Name: "Igbo"},
	{Code: "id", Name: "Indonesian"},
	{Code: "ga", Name: "Irish"},
	{Code: "it", Name: "Italian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "jv", Name: "Javanese"},
	{Code: "kn", Name: "Kannada"},
	{Code: "kk", Name: "Kazakh"},
	{Code: "km", Name: "Khmer"},
	{Code: "ko", Name: "Korean"},
	{Code: "kri", Name: "Krio"},
	{Code: "ku", Name: "Kurdish"},
	{Code: "ky", Name: "Kyrgyz"},
	{Code: "lo", Name: "Lao"},
	{Code: "la", Name: "Latin"},
	{Code: "lv", Name: "Latvian"},
	{Code: "lt", Name: "Lithuanian"},
	{Code: "lb", Name: "Luxembourgish"},
	{Code: "mk", Name: "Macedonian"},
	{Code: "mg", Name: "Malagasy"},
	{Code: "ms", Name: "Malay"},
	{Code: "ml", Name: "Malayalam"},
	{Code: "mt", Name: "Maltese"},
	{Code: "mi", Name: "Maori"},
	{Code: "mr", Name: "Marathi"},
	{Code: "mni-Mtei", Name: "Meiteilon (Manipuri)"},
	{Code: "mn", Name: "Mongolian"},
	{Code: "my", Name: "Myanmar (Burmese)"},
	{Code: "ne", Name: "Nepali"},
	{Code: "no", Name: "Norwegian"},
	{Code: "ny", Name: "Nyanja (Chichewa)"},
	{Code: "or", Name: "Odia (Oriya)"},
	{Code: "ps", Name: "Pashto"},
	{Code: "fa", Name: "Persian"},
	{Code: "pl", Name: "Polish"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "pa", Name: "Punjabi"},
	{Code: "ro", Name: "Romanian"},
	{Code: "ru", Name: "Russian"},
	{Code: "sm", Name: "Samoan"},
	{Code: "gd", Name: "Scots Gaelic"},
	{Code: "sr", Name: "Serbian"},
	{Code: "st", Name: "Sesotho"},
	{Code: "sn", Name: "Shona"},
	{Code: "sd", Name: "Sindhi"},
	{Code: "si", Name: "Sinhala (Sinhalese)"},
	{Code: "sk", Name: "Slovak"},
	{Code: "sl", Name: "Slovenian"},
	{Code: "so", Name: "Somali"},
	{Code: "es", Name: "Spanish"},
	{Code: "su", Name: "Sundanese"},
	{Code: "sw", Name: "Swahili"},
	{Code: "sv", Name: "Swedish"},
	{Code: "tg", Name: "Tajik"},
	{Code: "ta", Name: "Tamil"},
	{Code: "te", Name: "Telugu"},
	{Code: "th", Name: "Thai"},
	{Code: "tr", Name: "Turkish"},
	{Code: "uk", Name: "Ukrainian"},
	{Code: "ur", Name: "Urdu"},
	{Code: "ug", Name: "Uyghur"},
	{Code: "uz", Name: "Uzbek"},
	{Code: "vi", Name: "Vietnamese"},
	{Code: "cy", Name: "Welsh"},
	{Code: "xh", Name: "Xhosa"},
	{Code: "yi", Name: "Yiddish"},
	{Code: "yo", Name: "Yoruba"},
	{Code: "zu", Name: "Zulu"},
}

var aliases = map[string]string{
	"zh":      "zh-Hans",
	"chinese": "zh-Hans",
}

// Lookup resolves a code ("ko"), an alias ("zh") or an English name
// ("korean", any case) to a Language.
func Lookup(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Language{}, false
	}
	if code, ok := aliases[strings.ToLower(s)]; ok {
		s = code
	}
	for _, l := range Languages {
		if strings.EqualFold(l.Code, s) || strings.EqualFold(l.Name, s) {
			return l, true
		}
	}
	return Language{}, false
}

// Normalize returns the canonical English name for s, or s trimmed when
// the language is not in the table. Unknown names are passed to the model
// as-is.
func Normalize(s string) string {
	if l, ok := Lookup(s); ok {
		return l.Name
	}
	return strings.TrimSpace(s)
}

// Supported returns a copy of the table sorted by name, then code.
func Supported() []Language {
	out := slices.Clone(Languages)
	slices.SortFunc(out, func(a, b Language) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	return out
}

package enums

// Language selects the storefront locale.
type Language string

const (
	// LanguageEnglish is the fallback locale.
	LanguageEnglish Language = "en"
	// LanguageArabic is the default storefront locale.
	LanguageArabic Language = "ar"
)

// ParseLanguage normalizes raw input, defaulting to Arabic.
func ParseLanguage(value string) Language {
	if value == string(LanguageEnglish) {
		return LanguageEnglish
	}
	return LanguageArabic
}

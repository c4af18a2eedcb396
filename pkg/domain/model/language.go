package model

type Language string

const (
	LanguageJava       Language = "Java"
	LanguageJavaScript Language = "JavaScript"
	LanguageTypeScript Language = "TypeScript"
	LanguageRuby       Language = "Ruby"
	LanguageC          Language = "C"
	LanguageCPP        Language = "C++"
	LanguagePython     Language = "Python"
)

// SupportedLanguages is the set of languages kept by the language filter
var SupportedLanguages = []Language{
	LanguageJava,
	LanguageJavaScript,
	LanguageTypeScript,
	LanguageRuby,
	LanguageC,
	LanguageCPP,
	LanguagePython,
}

func (x Language) Supported() bool {
	for _, l := range SupportedLanguages {
		if x == l {
			return true
		}
	}
	return false
}

// LanguageGroup merges closely related languages for reporting
type LanguageGroup string

const (
	GroupJava       LanguageGroup = "Java"
	GroupJavaScript LanguageGroup = "JavaScript/TypeScript"
	GroupRuby       LanguageGroup = "Ruby"
	GroupC          LanguageGroup = "C/C++"
	GroupPython     LanguageGroup = "Python"
	GroupOther      LanguageGroup = "Other"
)

var LanguageGroups = []LanguageGroup{
	GroupJava,
	GroupJavaScript,
	GroupRuby,
	GroupC,
	GroupPython,
}

func (x Language) Group() LanguageGroup {
	switch x {
	case LanguageJava:
		return GroupJava
	case LanguageJavaScript, LanguageTypeScript:
		return GroupJavaScript
	case LanguageRuby:
		return GroupRuby
	case LanguageC, LanguageCPP:
		return GroupC
	case LanguagePython:
		return GroupPython
	default:
		return GroupOther
	}
}

package snippet

import (
	"path"
	"strings"
)

// Category groups languages in pickers.
type Category string

const (
	CategoryProgramming Category = "programming"
	CategoryMarkup      Category = "markup"
	CategoryScripting   Category = "scripting"
	CategoryConfig      Category = "config"
	CategoryData        Category = "data"
)

// Language is a supported snippet language.
type Language struct {
	ID        string
	Name      string
	Extension string
	MimeType  string
	Category  Category
}

// Theme is a supported visual theme.
type Theme struct {
	ID         string
	Name       string
	Background string
	Primary    string
	Logo       string
}

const (
	DefaultLanguageID = "plaintext"
	DefaultThemeID    = "dark"
)

var languages = []Language{
	{ID: "javascript", Name: "JavaScript", Extension: "js", MimeType: "text/javascript", Category: CategoryProgramming},
	{ID: "typescript", Name: "TypeScript", Extension: "ts", MimeType: "text/typescript", Category: CategoryProgramming},
	{ID: "python", Name: "Python", Extension: "py", MimeType: "text/x-python", Category: CategoryProgramming},
	{ID: "java", Name: "Java", Extension: "java", MimeType: "text/x-java", Category: CategoryProgramming},
	{ID: "cpp", Name: "C++", Extension: "cpp", MimeType: "text/x-c++src", Category: CategoryProgramming},
	{ID: "c", Name: "C", Extension: "c", MimeType: "text/x-csrc", Category: CategoryProgramming},
	{ID: "csharp", Name: "C#", Extension: "cs", MimeType: "text/x-csharp", Category: CategoryProgramming},
	{ID: "go", Name: "Go", Extension: "go", MimeType: "text/x-go", Category: CategoryProgramming},
	{ID: "rust", Name: "Rust", Extension: "rs", MimeType: "text/x-rustsrc", Category: CategoryProgramming},
	{ID: "php", Name: "PHP", Extension: "php", MimeType: "text/x-php", Category: CategoryProgramming},
	{ID: "ruby", Name: "Ruby", Extension: "rb", MimeType: "text/x-ruby", Category: CategoryProgramming},
	{ID: "swift", Name: "Swift", Extension: "swift", MimeType: "text/x-swift", Category: CategoryProgramming},
	{ID: "kotlin", Name: "Kotlin", Extension: "kt", MimeType: "text/x-kotlin", Category: CategoryProgramming},
	{ID: "scala", Name: "Scala", Extension: "scala", MimeType: "text/x-scala", Category: CategoryProgramming},
	{ID: "dart", Name: "Dart", Extension: "dart", MimeType: "text/x-dart", Category: CategoryProgramming},
	{ID: "html", Name: "HTML", Extension: "html", MimeType: "text/html", Category: CategoryMarkup},
	{ID: "css", Name: "CSS", Extension: "css", MimeType: "text/css", Category: CategoryMarkup},
	{ID: "scss", Name: "SCSS", Extension: "scss", MimeType: "text/x-scss", Category: CategoryMarkup},
	{ID: "sass", Name: "Sass", Extension: "sass", MimeType: "text/x-sass", Category: CategoryMarkup},
	{ID: "markdown", Name: "Markdown", Extension: "md", MimeType: "text/markdown", Category: CategoryMarkup},
	{ID: "xml", Name: "XML", Extension: "xml", MimeType: "application/xml", Category: CategoryMarkup},
	{ID: "bash", Name: "Bash", Extension: "sh", MimeType: "text/x-sh", Category: CategoryScripting},
	{ID: "powershell", Name: "PowerShell", Extension: "ps1", MimeType: "text/x-powershell", Category: CategoryScripting},
	{ID: "batch", Name: "Batch", Extension: "bat", MimeType: "text/x-bat", Category: CategoryScripting},
	{ID: "perl", Name: "Perl", Extension: "pl", MimeType: "text/x-perl", Category: CategoryScripting},
	{ID: "lua", Name: "Lua", Extension: "lua", MimeType: "text/x-lua", Category: CategoryScripting},
	{ID: "json", Name: "JSON", Extension: "json", MimeType: "application/json", Category: CategoryData},
	{ID: "yaml", Name: "YAML", Extension: "yml", MimeType: "text/yaml", Category: CategoryConfig},
	{ID: "toml", Name: "TOML", Extension: "toml", MimeType: "text/x-toml", Category: CategoryConfig},
	{ID: "ini", Name: "INI", Extension: "ini", MimeType: "text/x-ini", Category: CategoryConfig},
	{ID: "dockerfile", Name: "Dockerfile", Extension: "dockerfile", MimeType: "text/x-dockerfile", Category: CategoryConfig},
	{ID: "sql", Name: "SQL", Extension: "sql", MimeType: "text/x-sql", Category: CategoryData},
	{ID: "graphql", Name: "GraphQL", Extension: "graphql", MimeType: "application/graphql", Category: CategoryData},
	{ID: "plaintext", Name: "Plain Text", Extension: "txt", MimeType: "text/plain", Category: CategoryData},
}

var themes = []Theme{
	{ID: "dark", Name: "Dark", Background: "#020202", Primary: "#FFFFFF", Logo: "/svg/duckbin.svg"},
	{ID: "midnight", Name: "Midnight", Background: "#020015", Primary: "#CACBFF", Logo: "/svg/duckbin-midnight.svg"},
	{ID: "wine", Name: "Wine", Background: "#160000", Primary: "#FFCACA", Logo: "/svg/duckbin-wine.svg"},
	{ID: "spruce", Name: "Spruce", Background: "#0D1117", Primary: "#455B6D", Logo: "/svg/duckbin-spruce.svg"},
	{ID: "forest", Name: "Forest", Background: "#0B120C", Primary: "#4B5B49", Logo: "/svg/duckbin-forest.svg"},
	{ID: "light", Name: "Light", Background: "#F8F8F8", Primary: "#363C4C", Logo: "/svg/duckbin-light.svg"},
	{ID: "coffee", Name: "Coffee", Background: "#362217", Primary: "#FFDCC3", Logo: "/svg/duckbin-coffee.svg"},
	{ID: "pinky", Name: "Pinky", Background: "#FFDAF6", Primary: "#FF43D6", Logo: "/svg/duckbin-pinky.svg"},
	{ID: "greeny", Name: "Greeny", Background: "#E5FFD8", Primary: "#2A670E", Logo: "/svg/duckbin-greeny.svg"},
	{ID: "lightShade", Name: "Light Shade", Background: "#D0D0D0", Primary: "#634C4C", Logo: "/svg/duckbin-lightShade.svg"},
}

var (
	languagesByID  = indexBy(languages, func(l Language) string { return l.ID })
	languagesByExt = indexBy(languages, func(l Language) string { return l.Extension })
	themesByID     = indexBy(themes, func(t Theme) string { return t.ID })
)

func indexBy[T any](items []T, key func(T) string) map[string]T {
	m := make(map[string]T, len(items))
	for _, item := range items {
		m[key(item)] = item
	}

	return m
}

// Languages returns the registry in display order.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// LookupLanguage finds a language by id.
func LookupLanguage(id string) (Language, bool) {
	l, ok := languagesByID[id]
	return l, ok
}

// ResolveLanguage returns the language with id, or the default language.
func ResolveLanguage(id string) Language {
	if l, ok := languagesByID[id]; ok {
		return l
	}

	return languagesByID[DefaultLanguageID]
}

// LanguageForFilename guesses the language from a file name's extension.
func LanguageForFilename(name string) Language {
	base := strings.ToLower(path.Base(name))
	if base == "dockerfile" {
		return languagesByID["dockerfile"]
	}

	ext := strings.TrimPrefix(path.Ext(base), ".")

	switch ext {
	case "yaml":
		ext = "yml"
	case "jsx", "mjs", "cjs":
		ext = "js"
	case "tsx":
		ext = "ts"
	case "h":
		ext = "c"
	case "hpp", "cc", "cxx":
		ext = "cpp"
	case "htm":
		ext = "html"
	case "bash", "zsh":
		ext = "sh"
	}

	if l, ok := languagesByExt[ext]; ok {
		return l
	}

	return languagesByID[DefaultLanguageID]
}

// Themes returns the registry in display order.
func Themes() []Theme {
	return append([]Theme(nil), themes...)
}

// LookupTheme finds a theme by id.
func LookupTheme(id string) (Theme, bool) {
	t, ok := themesByID[id]
	return t, ok
}

// ResolveTheme returns the theme with id, or the default theme.
func ResolveTheme(id string) Theme {
	if t, ok := themesByID[id]; ok {
		return t
	}

	return themesByID[DefaultThemeID]
}

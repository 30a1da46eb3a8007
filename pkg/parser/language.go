package parser

import "strings"

// Language identifies a tree-sitter grammar used for snippet parsing.
type Language int

const (
	// LanguageTSX is TypeScript with JSX enabled. Catalog snippets are
	// component usages, so plain TypeScript is parsed with the TSX grammar.
	LanguageTSX Language = iota
	// LanguageJavaScript is JavaScript; the grammar accepts JSX.
	LanguageJavaScript
	// LanguageUnknown marks a snippet language with no grammar.
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTSX:
		return "tsx"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// FromSnippetTag maps a code-fence language tag to a grammar.
// Returns LanguageUnknown for tags without one.
func FromSnippetTag(tag string) Language {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "typescript", "ts", "tsx", "typescriptreact":
		return LanguageTSX
	case "javascript", "js", "jsx", "javascriptreact", "mjs", "cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// SupportedLanguages returns every language with a grammar.
func SupportedLanguages() []Language {
	return []Language{LanguageTSX, LanguageJavaScript}
}

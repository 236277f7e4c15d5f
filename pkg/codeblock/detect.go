package codeblock

import "regexp"

// TextLanguage is reported when no signature matches.
const TextLanguage = "text"

type signature struct {
	language string
	pattern  *regexp.Regexp
}

// Order matters: the first matching signature wins. Rust-only syntax is
// checked first because `let x =` and `=>` are also valid Rust.
var signatures = []signature{
	{
		language: "Rust",
		pattern:  regexp.MustCompile(`\bfn\s+\w+\s*(<[^>]*>)?\s*\(|\blet\s+mut\b|\b(println|print|eprintln|format|vec|panic)!\s*[(\[]|\buse\s+(std|crate)::|\bimpl(<[^>]*>)?\s+\w+`),
	},
	{
		language: "JavaScript",
		pattern:  regexp.MustCompile(`\b(const|let)\s+\w+\s*=|\bfunction\s*\w*\s*\(|=>|console\.(log|error|warn|info)\(|\bdocument\.|module\.exports|require\(['"]`),
	},
	{
		language: "Python",
		pattern:  regexp.MustCompile(`(?m)^\s*def\s+\w+\s*\(.*\)\s*:|^\s*(from\s+[\w.]+\s+)?import\s+[\w.]+(\s+as\s+\w+)?\s*$|\bprint\s*\(|^\s*elif\b|__name__|\bself\.`),
	},
	{
		language: "Java",
		pattern:  regexp.MustCompile(`\bpublic\s+(static\s+)?(final\s+)?(class|interface|void|int|String)\b|System\.out\.print|\bimport\s+java\.|@Override`),
	},
	{
		language: "HTML",
		pattern:  regexp.MustCompile(`(?i)<!DOCTYPE\s+html|<\s*(html|head|body|div|span|p|a|ul|ol|li|h[1-6]|script|style|form|input|button|table)\b[^>]*>`),
	},
	{
		language: "CSS",
		pattern:  regexp.MustCompile(`[.#]?[\w-]+(\s*[,>+~]?\s*[.#:]?[\w-]+)*\s*\{\s*[\w-]+\s*:\s*[^;{}]+;`),
	},
	{
		language: "SQL",
		pattern:  regexp.MustCompile(`(?i)\b(SELECT\b[\s\S]+?\bFROM|INSERT\s+INTO|UPDATE\s+\w+\s+SET|DELETE\s+FROM|CREATE\s+TABLE|ALTER\s+TABLE|DROP\s+TABLE)\b`),
	},
	{
		language: "C++",
		pattern:  regexp.MustCompile(`#include\s*[<"]|\bstd::|\bcout\s*<<|\bcin\s*>>|\bint\s+main\s*\(|\bprintf\s*\(`),
	},
	{
		language: "Go",
		pattern:  regexp.MustCompile(`(?m)^\s*package\s+\w+\s*$|\bfunc\s+(\(\w+\s+\*?\w+\)\s*)?\w+\s*\(|:=|\bfmt\.\w+\(`),
	},
	{
		language: "Rust",
		pattern:  regexp.MustCompile(`\bfn\s+\w+\s*\(|\blet\s+mut\b|\w+!\s*\(|\buse\s+std::|\bimpl\b`),
	},
}

// DetectLanguage guesses the language of an untagged code block.
func DetectLanguage(code string) string {
	for _, sig := range signatures {
		if sig.pattern.MatchString(code) {
			return sig.language
		}
	}
	return TextLanguage
}

// Package lang maps file extensions to languages and languages to default
// boilerplate. Both mappings are fixed tables; inference never fails, it
// falls back to a default, while validation (used on file creation) rejects
// extensions outside the supported set.
package lang

import (
	"path"
	"strings"

	"nerdpad/internal/types"
)

// FallbackLanguage is what Infer returns for extensions outside the
// recognized set. This is a deliberate policy, not an accident: inference
// runs on rename paths where the extension was never validated, and the
// editor needs some language to highlight and execute with. cpp matches the
// original default.
const FallbackLanguage = types.LangCPP

// extensions maps a lowercase extension (without dot) to its language.
var extensions = map[string]types.Language{
	"c":    types.LangC,
	"cpp":  types.LangCPP,
	"cc":   types.LangCPP,
	"cxx":  types.LangCPP,
	"java": types.LangJava,
	"js":   types.LangJavaScript,
	"py":   types.LangPython,
}

// Ext extracts the extension of name, lowercased, without the dot.
// Empty when name has none.
func Ext(name string) string {
	e := path.Ext(name)
	if e == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(e, "."))
}

// Infer derives the language for a file name. Unrecognized or absent
// extensions yield FallbackLanguage.
func Infer(name string) types.Language {
	if l, ok := extensions[Ext(name)]; ok {
		return l
	}
	return FallbackLanguage
}

// Recognized reports whether the file name carries an extension in the
// supported set. File creation requires this; rename does not.
func Recognized(name string) bool {
	_, ok := extensions[Ext(name)]
	return ok
}

// FileName returns the canonical file name the remote execution service
// expects for a language.
func FileName(l types.Language) string {
	switch l {
	case types.LangC:
		return "main.c"
	case types.LangCPP:
		return "main.cpp"
	case types.LangJava:
		return "Main.java"
	case types.LangJavaScript:
		return "main.js"
	case types.LangPython:
		return "main.py"
	}
	return "main.txt"
}

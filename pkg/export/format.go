package export

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"mercator-hq/gridexport/pkg/export/writer"
)

// ResolveFormat picks the writer backend for an export. An explicit format
// is used verbatim. Otherwise the tag is derived from the file extension:
// lower-cased, then with its first letter upper-cased ("REPORT.CSV" -> "Csv").
//
// The tag must name a backend in registry, or an UnsupportedFormatError is
// returned.
func ResolveFormat(registry *writer.Registry, explicit writer.Format, fileName string) (writer.Format, error) {
	format := explicit
	if format == "" {
		format = FormatFromFileName(fileName)
	}

	if format == "" || registry == nil || !registry.Has(format) {
		name := ""
		if explicit == "" {
			name = fileName
		}
		return "", NewUnsupportedFormatError(string(format), name)
	}
	return format, nil
}

// FormatFromFileName derives a format tag from the extension of name.
// It returns "" when name has no extension.
func FormatFromFileName(name string) writer.Format {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return ""
	}
	return writer.Format(upperFirst(strings.ToLower(ext)))
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCharset is the code page assumed when none is declared.
const DefaultCharset = "Cp437"

// Encoding resolves a charset name. An empty name means DefaultCharset.
//
// Besides IANA names and aliases ("IBM850", "windows-1252", "UTF-8"), the
// legacy "CpNNN" spellings are accepted: Cp437 and Cp850 style DOS code
// pages map to IBMnnn, Cp125x to windows-125x.
func Encoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultCharset
	}
	if strings.EqualFold(name, DefaultCharset) {
		return charmap.CodePage437, nil
	}

	enc, err := ianaindex.IANA.Encoding(ianaName(name))
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}

func ianaName(name string) string {
	lower := strings.ToLower(name)
	num, ok := strings.CutPrefix(lower, "cp")
	if !ok || num == "" || strings.Trim(num, "0123456789") != "" {
		return name
	}
	if strings.HasPrefix(num, "125") {
		return "windows-" + num
	}
	return "IBM" + num
}

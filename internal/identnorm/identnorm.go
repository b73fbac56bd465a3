// Package identnorm normalizes identifiers (path segments, proc/field/
// method names) before they are quoted into emitted assembly text, so
// that NFC/NFD-equivalent source identifiers always produce byte-identical
// output regardless of how the original source file encoded them.
package identnorm

import "golang.org/x/text/unicode/norm"

// Normalize applies Unicode NFC normalization to an identifier. It is the
// identity function for already-normalized, plain-ASCII identifiers (the
// overwhelmingly common case), so it is cheap to call on every name headed
// for quoting.
func Normalize(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}

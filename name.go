package gofat

import (
	"strings"

	"github.com/kdwils/gofat/checkpoint"
)

// forbidden8Dot3 are the bytes the FAT specification disallows inside an
// 8.3 name, beyond the generic "control character" rule.
const forbidden8Dot3 = "\"*+,/:;<=>?[\\]|"

// toShortName converts a long filename into its padded, uppercased 11-byte
// 8.3 form. "." and ".." are special-cased to their literal
// directory-entry encodings.
func toShortName(long string) [11]byte {
	var short [11]byte
	for i := range short {
		short[i] = ' '
	}

	trimmed := strings.TrimSpace(long)

	if trimmed == "." {
		short[0] = '.'
		return short
	}
	if trimmed == ".." {
		short[0] = '.'
		short[1] = '.'
		return short
	}

	base := trimmed
	ext := ""
	if idx := strings.LastIndex(trimmed, "."); idx > 0 {
		base = trimmed[:idx]
		ext = trimmed[idx+1:]
	}

	base = strings.ToUpper(base)
	ext = strings.ToUpper(ext)

	for i := 0; i < 8 && i < len(base); i++ {
		short[i] = base[i]
	}
	for i := 0; i < 3 && i < len(ext); i++ {
		short[8+i] = ext[i]
	}

	return short
}

// fromShortName converts an 11-byte 8.3 name back into its long form
//. "." and ".." round-trip to themselves.
func fromShortName(short [11]byte) string {
	if short[0] == '.' && strings.TrimRight(string(short[1:]), " ") == "" {
		return "."
	}
	if short[0] == '.' && short[1] == '.' && strings.TrimRight(string(short[2:]), " ") == "" {
		return ".."
	}

	base := strings.TrimRight(string(short[0:8]), " ")
	ext := strings.TrimRight(string(short[8:11]), " ")

	if ext != "" {
		return base + "." + ext
	}
	return base
}

// validateLeafName enforces the 8.3 leaf-name rules: the first byte
// cannot be a space, and none of the forbidden 8.3 characters or control
// bytes other than 0x00 may appear.
func validateLeafName(short [11]byte) error {
	if short[0] == ' ' {
		return checkpoint.From(ErrInvalidName)
	}

	for _, b := range short {
		if b < 0x20 && b != 0x00 {
			return checkpoint.From(ErrInvalidName)
		}
		if strings.IndexByte(forbidden8Dot3, b) >= 0 {
			return checkpoint.From(ErrInvalidName)
		}
	}

	return nil
}

// encodeNameByte rewrites a real leading 0xE5 byte to the FAT-mandated
// escape value 0x05 so it is never confused with a deleted-entry marker.
func encodeNameByte(short [11]byte) [11]byte {
	if short[0] == entryDeleted {
		short[0] = entryDeletedEscape
	}
	return short
}

// splitPath splits a backslash-separated path into its non-empty,
// trimmed components. A leading backslash is allowed and ignored.
func splitPath(path string) ([]string, error) {
	if strings.ContainsRune(path, '/') {
		return nil, checkpoint.From(ErrInvalidPath)
	}

	var components []string
	for _, part := range strings.Split(path, `\`) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		components = append(components, part)
	}

	return components, nil
}

// shortPathComponents converts every component of a split path into its
// 8.3 byte form, ready to compare against on-disk Name fields.
func shortPathComponents(components []string) [][11]byte {
	result := make([][11]byte, len(components))
	for i, c := range components {
		result[i] = toShortName(c)
	}
	return result
}

// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package format

import "strings"

// BOMBytes returns the byte-order-mark sequence for the given encoding
// name, per spec.md §4.7's table. Matching is case-insensitive; an
// unrecognized encoding returns nil (no BOM written), which FileFormat
// treats as "this encoding has none" rather than an error.
func BOMBytes(encoding string) []byte {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "UTF-8", "UTF8":
		return []byte{0xEF, 0xBB, 0xBF}
	case "UTF-16BE", "UTF16BE":
		return []byte{0xFE, 0xFF}
	case "UTF-16LE", "UTF16LE":
		return []byte{0xFF, 0xFE}
	case "UTF-32BE", "UTF32BE":
		return []byte{0x00, 0x00, 0xFE, 0xFF}
	case "UTF-32LE", "UTF32LE":
		return []byte{0xFF, 0xFE, 0x00, 0x00}
	case "UTF-7", "UTF7":
		return []byte{0x2B, 0x2F, 0x76}
	case "UTF-1", "UTF1":
		return []byte{0xF7, 0x64, 0x4C}
	case "UTF-EBCDIC":
		return []byte{0xDD, 0x73, 0x66, 0x73}
	case "SCSU":
		return []byte{0x0E, 0xFE, 0xFF}
	case "BOCU-1", "BOCU1":
		return []byte{0xFB, 0xEE, 0x28}
	case "GB18030":
		return []byte{0x84, 0x31, 0x95, 0x33}
	default:
		return nil
	}
}

package emv

import (
	"github.com/gregLibert/pan-reader/pkg/tlv"
)

// terminalDefaults holds the fixed value emitted for each known tag of a
// processing options data object list. The values describe a plausible
// contactless terminal: a qVSDC-capable reader in Germany charging a small
// EUR amount on a fixed date.
var terminalDefaults = map[tlv.Tag][]byte{
	0x9F66: {0xF0, 0x20, 0x40, 0x00},             // Terminal Transaction Qualifiers
	0x9F02: {0x00, 0x00, 0x00, 0x00, 0x10, 0x00}, // Amount, Authorised
	0x9F03: {0x00, 0x00, 0x00, 0x00, 0x10, 0x00}, // Amount, Other
	0x9F1A: {0x02, 0x76},                         // Terminal Country Code
	0x5F2A: {0x09, 0x78},                         // Transaction Currency Code
	0x9A:   {0x23, 0x11, 0x25},                   // Transaction Date (YYMMDD)
	0x9F37: {0xB5, 0x43, 0xFF, 0x89},             // Unpredictable Number
}

// SynthesizePDOL converts a card-requested data object list into the
// terminal data for GET PROCESSING OPTIONS. A PDOL is a sequence of tag
// and length headers without values; for each entry the known terminal
// default is emitted, or the requested number of zero bytes for tags the
// terminal has no value for. An empty or single-byte request yields nil.
func SynthesizePDOL(pdol []byte) []byte {
	var out []byte

	for len(pdol) >= 2 {
		tag, n, ok := tlv.DecodeTag(pdol)
		if !ok || n >= len(pdol) {
			break
		}
		length := int(pdol[n])

		if value, known := terminalDefaults[tag]; known {
			out = append(out, value...)
		} else {
			out = append(out, make([]byte, length)...)
		}

		pdol = pdol[n+1:]
	}

	return out
}

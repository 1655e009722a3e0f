package emv

import (
	"strings"
)

// Source identifies which card field a PAN was extracted from.
type Source int

const (
	SourceTrack1 Source = iota + 1
	SourceTrack2
	SourcePANField
)

func (s Source) String() string {
	switch s {
	case SourceTrack1:
		return "track 1"
	case SourceTrack2:
		return "track 2"
	case SourcePANField:
		return "PAN field"
	default:
		return "unknown"
	}
}

// PAN is an extracted Primary Account Number: an owned sequence of decimal
// digits plus the field it came from. A nil *PAN means "not found here, try
// the next source".
type PAN struct {
	Digits []byte
	Source Source
}

// String renders the PAN as its decimal digit string.
func (p *PAN) String() string {
	var sb strings.Builder
	for _, d := range p.Digits {
		sb.WriteByte('0' + d)
	}
	return sb.String()
}

// Masked renders the PAN with all but the last four digits hidden.
func (p *PAN) Masked() string {
	s := p.String()
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// Nibble values terminating a packed digit sequence.
const (
	track2Separator = 0x0D // separates the PAN from the expiration date
	panPadding      = 0x0F // pads the PAN field to whole bytes
)

// parseNibbles unpacks decimal digits stored two per byte, high nibble
// first, up to the terminator nibble. The terminator must appear within a
// plausible PAN span: since the PAN is 8 to 19 digits packed two per byte,
// the terminating byte position has to fall between 3 and 10.
func parseNibbles(data []byte, terminator byte) []byte {
	var digits []byte
	pos := 0
	found := false

scan:
	for ; pos < len(data); pos++ {
		hi := data[pos] >> 4
		lo := data[pos] & 0x0F

		if hi == terminator {
			found = true
			break scan
		}
		digits = append(digits, hi)

		if lo == terminator {
			found = true
			break scan
		}
		digits = append(digits, lo)
	}

	if !found || pos < 3 || pos > 10 {
		return nil
	}
	return digits
}

// ParseTrack2 extracts the PAN from Track 2 equivalent data: packed digits
// up to the 0xD field separator, after which the expiration date and
// discretionary data follow.
func ParseTrack2(data []byte) *PAN {
	digits := parseNibbles(data, track2Separator)
	if digits == nil {
		return nil
	}
	return &PAN{Digits: digits, Source: SourceTrack2}
}

// ParsePANField extracts the PAN from the plain PAN data object: packed
// digits padded with 0xF to whole bytes.
func ParsePANField(data []byte) *PAN {
	digits := parseNibbles(data, panPadding)
	if digits == nil {
		return nil
	}
	return &PAN{Digits: digits, Source: SourcePANField}
}

// ParseTrack1 extracts the PAN from Track 1 data: format code 'B', then up
// to 19 ASCII digits, then the '^' separator before the cardholder name.
// Anything else rejects the field.
func ParseTrack1(data []byte) *PAN {
	if len(data) == 0 || data[0] != 'B' {
		return nil
	}

	var digits []byte
	for _, b := range data[1:] {
		if b == '^' {
			return &PAN{Digits: digits, Source: SourceTrack1}
		}
		if b < '0' || b > '9' || len(digits) == 19 {
			return nil
		}
		digits = append(digits, b-'0')
	}
	// separator never found
	return nil
}

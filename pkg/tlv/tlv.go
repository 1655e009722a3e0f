// Package tlv implements the subset of BER-TLV needed to walk EMV card
// responses: one- and two-byte tags, lengths up to 255 bytes (short form or
// a single extra length byte), and a fixed set of constructed template tags.
//
// The decoders are deliberately tolerant: a node whose declared length runs
// past the end of the buffer is dropped, and a lookup in a buffer that does
// not contain the requested tag simply returns nothing. Absence of a tag is
// an expected outcome at every call site, not an error.
package tlv

// Tag identifies a BER-TLV data object. Two-byte tags are stored as
// (first byte << 8) | second byte, e.g. 0x9F38.
type Tag uint16

// Constructed reports whether the tag is one of the template tags whose
// value is itself a TLV sequence. Every other tag is treated as primitive.
func (t Tag) Constructed() bool {
	switch t {
	case 0x6F, 0xA5, 0xBF0C, 0x61, 0x77, 0x70:
		return true
	}
	return false
}

// DecodeTag reads a tag at the start of buf. A first byte whose low five
// bits are all set announces a second tag byte. It returns the tag and the
// number of bytes consumed, or ok == false when buf ends mid-tag.
func DecodeTag(buf []byte) (tag Tag, n int, ok bool) {
	if len(buf) == 0 {
		return 0, 0, false
	}
	tag = Tag(buf[0])
	n = 1
	if buf[0]&0x1F == 0x1F {
		if len(buf) < 2 {
			return 0, 0, false
		}
		tag = tag<<8 | Tag(buf[1])
		n = 2
	}
	return tag, n, true
}

// DecodeLength reads a length field at the start of buf. Short form encodes
// the length directly; long form 0x81 takes it from the following byte.
// Indefinite form (0x80) and lengths above 255 (0x82 and up) are outside
// this codec's scope and fail.
func DecodeLength(buf []byte) (length, n int, ok bool) {
	if len(buf) == 0 {
		return 0, 0, false
	}
	first := buf[0]
	if first&0x80 == 0 {
		return int(first), 1, true
	}
	if first != 0x81 || len(buf) < 2 {
		return 0, 0, false
	}
	return int(buf[1]), 2, true
}

// EncodeHeader renders the tag and length header for a node. Lengths of 128
// and above use the single-extra-byte long form; lengths above 255 are not
// representable and yield nil.
func EncodeHeader(tag Tag, length int) []byte {
	if length < 0 || length > 255 {
		return nil
	}
	var header []byte
	if tag > 0xFF {
		header = append(header, byte(tag>>8))
	}
	header = append(header, byte(tag))
	if length >= 0x80 {
		header = append(header, 0x81)
	}
	return append(header, byte(length))
}

// Flatten decodes the TLV sequence in buf and collapses every nesting level
// into a single tag-to-value map. Values are independent copies, safe to
// keep after buf is reused. When a tag occurs more than once, the most
// recently decoded node wins: decoding runs depth-first through the buffer,
// so a later occurrence overwrites an earlier one.
//
// Buffers shorter than a minimal node and nodes whose declared length
// exceeds the remaining bytes are dropped silently.
func Flatten(buf []byte) map[Tag][]byte {
	m := make(map[Tag][]byte)
	flattenInto(buf, m)
	return m
}

func flattenInto(buf []byte, m map[Tag][]byte) {
	if len(buf) < 3 {
		return
	}
	tag, n, ok := DecodeTag(buf)
	if !ok {
		return
	}
	length, ln, ok := DecodeLength(buf[n:])
	if !ok {
		return
	}
	header := n + ln
	end := header + length
	if end > len(buf) {
		return
	}
	value := append([]byte(nil), buf[header:end]...)
	m[tag] = value
	if tag.Constructed() {
		flattenInto(value, m)
	}
	if end < len(buf) {
		flattenInto(buf[end:], m)
	}
}

// Find searches buf depth-first for target and returns a copy of the first
// matching value: the node at the start of buf is checked first, then the
// contents of a constructed node, then the remaining siblings. It returns
// nil when the tag is absent or the buffer is too short to hold a node.
func Find(buf []byte, target Tag) []byte {
	if len(buf) < 3 {
		return nil
	}
	tag, n, ok := DecodeTag(buf)
	if !ok {
		return nil
	}
	length, ln, ok := DecodeLength(buf[n:])
	if !ok {
		return nil
	}
	header := n + ln
	end := header + length
	if end <= len(buf) {
		value := buf[header:end]
		if tag == target {
			return append([]byte(nil), value...)
		}
		if tag.Constructed() {
			if found := Find(value, target); found != nil {
				return found
			}
		}
	}
	if end < len(buf) {
		return Find(buf[end:], target)
	}
	return nil
}

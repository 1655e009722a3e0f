package emv

import (
	"fmt"

	"github.com/gregLibert/pan-reader/pkg/bits"
)

// AFLEntry is one Application File Locator entry: a record range within
// the file identified by SFI. OfflineAuthRecords counts how many of those
// records take part in offline data authentication; PAN discovery reads
// them all regardless.
type AFLEntry struct {
	SFI                byte // short file identifier, 5 bits
	First              byte
	Last               byte
	OfflineAuthRecords byte
}

// ParseAFL decodes an Application File Locator into its 4-byte entries.
// The buffer must be a positive multiple of 4 and every entry must carry a
// valid record range (records are numbered from 1, first <= last).
func ParseAFL(data []byte) ([]AFLEntry, error) {
	if len(data) < 4 || len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedAFL, len(data))
	}

	entries := make([]AFLEntry, 0, len(data)/4)
	for i := 0; i < len(data); i += 4 {
		entry := AFLEntry{
			SFI:                bits.GetRange(data[i], 8, 4),
			First:              data[i+1],
			Last:               data[i+2],
			OfflineAuthRecords: data[i+3],
		}
		if entry.First == 0 || entry.First > entry.Last {
			return nil, fmt.Errorf("%w: record range %d-%d", ErrMalformedAFL, entry.First, entry.Last)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Package emv extracts the Primary Account Number from a contactless EMV
// card: it sequences the SELECT / GET PROCESSING OPTIONS / READ RECORD
// exchanges and decodes the track data the card returns. It performs
// read-only PAN discovery only; nothing here authenticates the card or
// takes a transaction decision.
package emv

import (
	"github.com/gregLibert/pan-reader/pkg/tlv"
)

// EMV tags met during PAN discovery.
const (
	TagAID              tlv.Tag = 0x4F   // application identifier in the PPSE directory
	TagApplicationLabel tlv.Tag = 0x50   // human-readable application name
	TagTrack1           tlv.Tag = 0x56   // Track 1 data (ASCII)
	TagTrack2           tlv.Tag = 0x57   // Track 2 equivalent data (nibble-packed)
	TagPAN              tlv.Tag = 0x5A   // application PAN (nibble-packed)
	TagFCITemplate      tlv.Tag = 0x6F   // FCI template wrapping a SELECT response
	TagCommandTemplate  tlv.Tag = 0x83   // wraps the PDOL data in the GPO command
	TagAFL              tlv.Tag = 0x94   // application file locator
	TagPDOL             tlv.Tag = 0x9F38 // processing options data object list
	TagPreferredName    tlv.Tag = 0x9F12 // application preferred name
)

// Package nfctag builds the tag object handed onward once a card read has
// concluded, successfully or not.
package nfctag

import (
	"fmt"

	"github.com/gregLibert/pan-reader/pkg/emv"
)

// Tag is the finished result of one card interaction. A Tag always carries
// the card's UID; the PAN is nil when the read produced no account data.
type Tag struct {
	UID []byte
	PAN *emv.PAN
}

// New builds a Tag from a card UID and the outcome of the EMV read. Passing
// a nil pan records a card that was detected but yielded no account data.
func New(uid []byte, pan *emv.PAN) *Tag {
	return &Tag{
		UID: append([]byte(nil), uid...),
		PAN: pan,
	}
}

// HasPAN reports whether the read produced account data.
func (t *Tag) HasPAN() bool {
	return t.PAN != nil
}

// String renders the tag for diagnostics. The PAN is masked; use
// t.PAN.String for the full number.
func (t *Tag) String() string {
	if t.PAN == nil {
		return fmt.Sprintf("tag %X (no account data)", t.UID)
	}
	return fmt.Sprintf("tag %X PAN %s (%s)", t.UID, t.PAN.Masked(), t.PAN.Source)
}

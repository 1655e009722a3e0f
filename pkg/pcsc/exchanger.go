// Package pcsc adapts a PC/SC card connection to the APDU exchange
// contract used by the EMV reader.
//
// PC/SC readers expose the card response as-is, so two ISO 7816-3 transport
// behaviours surface at this layer and are handled automatically:
//
//  1. "61 XX" (response available): the card holds XX more bytes; a
//     GET RESPONSE command retrieves them.
//  2. "6C XX" (wrong length): the card rejects the expected length and
//     suggests XX; the original command is re-issued with Le = XX.
package pcsc

import (
	"fmt"

	"github.com/gregLibert/pan-reader/pkg/iso7816"
)

// Transmitter abstracts the physical card connection; *scard.Card
// implements it.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Exchanger performs APDU round trips over a PC/SC connection.
type Exchanger struct {
	card Transmitter
}

// NewExchanger creates an Exchanger over the given card connection.
func NewExchanger(card Transmitter) *Exchanger {
	return &Exchanger{card: card}
}

// Exchange transmits one APDU and returns the response payload with the
// status word stripped. 61XX and 6CXX statuses are resolved transparently;
// any other status than 9000 fails with a StatusError.
func (e *Exchanger) Exchange(apdu []byte) ([]byte, error) {
	resp, err := e.transmit(apdu)
	if err != nil {
		return nil, err
	}

	if resp.Status.HasMoreData() {
		more, err := e.getResponse(resp.Status.SW2())
		if err != nil {
			return nil, err
		}
		return append(resp.Data, more...), nil
	}

	if resp.Status.IsWrongLe() && hasLe(apdu) {
		corrected := append([]byte(nil), apdu...)
		corrected[len(corrected)-1] = resp.Status.SW2()
		return e.Exchange(corrected)
	}

	if !resp.Status.IsSuccess() {
		return nil, &iso7816.StatusError{SW: resp.Status}
	}
	return resp.Data, nil
}

func (e *Exchanger) transmit(apdu []byte) (*iso7816.ResponseAPDU, error) {
	raw, err := e.card.Transmit(apdu)
	if err != nil {
		return nil, fmt.Errorf("transmit failed: %w", err)
	}
	return iso7816.ParseResponse(raw)
}

// getResponse drains a 61XX chain; each GET RESPONSE may itself announce
// further pending bytes.
func (e *Exchanger) getResponse(pending byte) ([]byte, error) {
	var out []byte
	for {
		cmd, err := iso7816.GetResponse(pending).Bytes()
		if err != nil {
			return nil, err
		}
		resp, err := e.transmit(cmd)
		if err != nil {
			return nil, err
		}
		out = append(out, resp.Data...)

		switch {
		case resp.Status.IsSuccess():
			return out, nil
		case resp.Status.HasMoreData():
			pending = resp.Status.SW2()
		default:
			return nil, &iso7816.StatusError{SW: resp.Status}
		}
	}
}

// hasLe reports whether the encoded APDU carries a trailing Le byte: a
// five-byte header-plus-Le command, or a body whose length runs one byte
// past the data field.
func hasLe(apdu []byte) bool {
	if len(apdu) == 5 {
		return true
	}
	return len(apdu) > 5 && int(apdu[4])+6 == len(apdu)
}

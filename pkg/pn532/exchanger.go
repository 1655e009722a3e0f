// Package pn532 drives APDU exchanges through a PN532 NFC front end.
//
// The PN532 tunnels an APDU to the card via its InDataExchange command: the
// host prepends the command code and the logical target number, and the chip
// prepends a one-byte exchange status to the card's reply. This package owns
// that envelope; the byte-level frame transport (UART, I2C, SPI) stays
// behind the Transport interface and is expected to impose its own timeouts.
package pn532

import (
	"fmt"

	"github.com/gregLibert/pan-reader/pkg/iso7816"
)

const (
	// cmdInDataExchange is the PN532 command code tunnelling data to a
	// selected target.
	cmdInDataExchange = 0x40

	// targetCurrent addresses the single currently-selected card; the
	// PN532 supports two simultaneous targets but this reader never
	// activates more than one.
	targetCurrent = 0x01
)

// Transport is the byte-level link to the PN532. ReadResponse blocks until
// the response frame for the given command code arrives or the link fails.
type Transport interface {
	WriteCommand(cmd []byte) error
	ReadResponse(cmd byte) ([]byte, error)
}

// Exchanger frames APDUs for a PN532 and unwraps the card's responses.
type Exchanger struct {
	transport Transport
}

// NewExchanger creates an Exchanger over the given transport.
func NewExchanger(transport Transport) *Exchanger {
	return &Exchanger{transport: transport}
}

// Exchange sends one APDU to the currently-selected card and returns the
// response payload with the exchange status byte and the status word
// stripped. It fails on a transport error, on a device-level exchange
// error, and on any card status other than 9000.
func (e *Exchanger) Exchange(apdu []byte) ([]byte, error) {
	cmd := make([]byte, 0, 2+len(apdu))
	cmd = append(cmd, cmdInDataExchange, targetCurrent)
	cmd = append(cmd, apdu...)

	if err := e.transport.WriteCommand(cmd); err != nil {
		return nil, fmt.Errorf("writing InDataExchange command: %w", err)
	}

	resp, err := e.transport.ReadResponse(cmdInDataExchange)
	if err != nil {
		return nil, fmt.Errorf("reading InDataExchange response: %w", err)
	}

	// One exchange status byte plus the two status word bytes at least.
	if len(resp) < 3 {
		return nil, fmt.Errorf("InDataExchange response too short: %d bytes", len(resp))
	}
	if resp[0] != 0x00 {
		return nil, fmt.Errorf("device reported exchange error 0x%02X", resp[0])
	}

	parsed, err := iso7816.ParseResponse(resp[1:])
	if err != nil {
		return nil, err
	}
	if !parsed.Status.IsSuccess() {
		return nil, &iso7816.StatusError{SW: parsed.Status}
	}

	return parsed.Data, nil
}

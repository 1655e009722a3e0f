package iso7816

import (
	"fmt"
)

// Short length mode limits according to ISO 7816-3.
const (
	// MaxData is the maximum data length (Nc) encodable in a single
	// length byte.
	MaxData = 255

	// MaxResponse is the maximum expected response length (Ne); the Le
	// byte 0x00 encodes it.
	MaxResponse = 256
)

// Instruction (INS) codes used during PAN discovery.
const (
	InsSelect               byte = 0xA4
	InsReadRecord           byte = 0xB2
	InsGetResponse          byte = 0xC0
	InsGetProcessingOptions byte = 0xA8
)

// Class (CLA) bytes used during PAN discovery.
const (
	ClaInterindustry byte = 0x00
	ClaProprietary   byte = 0x80
)

// CommandAPDU represents a command sent to the card. Ne is the expected
// response length: 0 omits the trailing Le byte, MaxResponse encodes it
// as 0x00.
type CommandAPDU struct {
	Cla  byte
	Ins  byte
	P1   byte
	P2   byte
	Data []byte
	Ne   int
}

// Bytes encodes the CommandAPDU into its wire representation. It fails when
// the data field does not fit in a single length byte or Ne exceeds the
// short limit.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	if len(c.Data) > MaxData {
		return nil, fmt.Errorf("data field of %d bytes exceeds short length limit %d", len(c.Data), MaxData)
	}
	if c.Ne < 0 || c.Ne > MaxResponse {
		return nil, fmt.Errorf("expected length %d outside short range [0, %d]", c.Ne, MaxResponse)
	}

	buf := make([]byte, 0, 6+len(c.Data))
	buf = append(buf, c.Cla, c.Ins, c.P1, c.P2)

	if len(c.Data) > 0 {
		buf = append(buf, byte(len(c.Data)))
		buf = append(buf, c.Data...)
	}

	switch {
	case c.Ne == MaxResponse:
		buf = append(buf, 0x00)
	case c.Ne > 0:
		buf = append(buf, byte(c.Ne))
	}

	return buf, nil
}

// String returns a readable representation of the command meta-data.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("CLA: %02X, INS: %02X | P1: %02X, P2: %02X | Lc: %d | Ne: %d",
		c.Cla, c.Ins, c.P1, c.P2, len(c.Data), c.Ne)
}

// ResponseAPDU represents the reply from the card (R-APDU).
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponse splits raw bytes received from the card into payload and
// status word. The input must contain at least the two trailer bytes.
func ParseResponse(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: %d bytes", len(raw))
	}

	trailer := len(raw) - 2
	return &ResponseAPDU{
		Data:   raw[:trailer],
		Status: NewStatusWord(raw[trailer], raw[trailer+1]),
	}, nil
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}

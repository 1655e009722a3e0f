package pn532

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gregLibert/pan-reader/pkg/iso7816"
	"github.com/gregLibert/pan-reader/pkg/tlv"
)

// fakeTransport records the written command and replays a canned response.
type fakeTransport struct {
	written  []byte
	readCmd  byte
	response []byte
	writeErr error
	readErr  error
}

func (f *fakeTransport) WriteCommand(cmd []byte) error {
	f.written = append([]byte(nil), cmd...)
	return f.writeErr
}

func (f *fakeTransport) ReadResponse(cmd byte) ([]byte, error) {
	f.readCmd = cmd
	return f.response, f.readErr
}

func TestExchange(t *testing.T) {
	ft := &fakeTransport{response: tlv.Hex("00 6F 03 84 01 AA 90 00")}
	ex := NewExchanger(ft)

	payload, err := ex.Exchange(tlv.Hex("00 A4 04 00 01 AA 00"))
	if err != nil {
		t.Fatalf("Exchange() error: %v", err)
	}

	// The APDU must travel inside the InDataExchange envelope.
	wantCmd := tlv.Hex("40 01 00 A4 04 00 01 AA 00")
	if !bytes.Equal(ft.written, wantCmd) {
		t.Errorf("written command = %X, want %X", ft.written, wantCmd)
	}
	if ft.readCmd != 0x40 {
		t.Errorf("read command code = %02X, want 40", ft.readCmd)
	}

	// Status byte and status word must be stripped from the payload.
	if !bytes.Equal(payload, tlv.Hex("6F 03 84 01 AA")) {
		t.Errorf("payload = %X, want 6F038401AA", payload)
	}
}

func TestExchange_WriteFailure(t *testing.T) {
	cause := errors.New("link down")
	ex := NewExchanger(&fakeTransport{writeErr: cause})

	if _, err := ex.Exchange(tlv.Hex("00 A4 04 00")); !errors.Is(err, cause) {
		t.Errorf("Exchange() error = %v, want wrapped %v", err, cause)
	}
}

func TestExchange_ReadFailure(t *testing.T) {
	cause := errors.New("timeout")
	ex := NewExchanger(&fakeTransport{readErr: cause})

	if _, err := ex.Exchange(tlv.Hex("00 A4 04 00")); !errors.Is(err, cause) {
		t.Errorf("Exchange() error = %v, want wrapped %v", err, cause)
	}
}

func TestExchange_DeviceError(t *testing.T) {
	// Non-zero exchange status means the PN532 could not reach the card.
	ex := NewExchanger(&fakeTransport{response: tlv.Hex("27 90 00")})

	if _, err := ex.Exchange(tlv.Hex("00 A4 04 00")); err == nil {
		t.Error("expected error for device exchange status 0x27, got nil")
	}
}

func TestExchange_BadStatusWord(t *testing.T) {
	ex := NewExchanger(&fakeTransport{response: tlv.Hex("00 6A 82")})

	_, err := ex.Exchange(tlv.Hex("00 A4 04 00"))
	var swErr *iso7816.StatusError
	if !errors.As(err, &swErr) {
		t.Fatalf("Exchange() error = %v, want StatusError", err)
	}
	if swErr.SW != iso7816.SWFileNotFound {
		t.Errorf("status word = %04X, want 6A82", uint16(swErr.SW))
	}
}

func TestExchange_ResponseTooShort(t *testing.T) {
	ex := NewExchanger(&fakeTransport{response: tlv.Hex("00 90")})

	if _, err := ex.Exchange(tlv.Hex("00 A4 04 00")); err == nil {
		t.Error("expected error for two-byte response, got nil")
	}
}

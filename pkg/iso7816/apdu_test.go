package iso7816

import (
	"bytes"
	"testing"

	"github.com/gregLibert/pan-reader/pkg/tlv"
)

func TestCommandAPDU_Bytes(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *CommandAPDU
		expected []byte
	}{
		{
			name:     "Header Only",
			cmd:      &CommandAPDU{Cla: 0x00, Ins: InsSelect, P1: 0x01, P2: 0x02},
			expected: tlv.Hex("00 A4 01 02"),
		},
		{
			name:     "Data With Trailing Le",
			cmd:      &CommandAPDU{Cla: 0x00, Ins: InsSelect, P1: 0x04, P2: 0x00, Data: []byte{0xA0, 0x00}, Ne: MaxResponse},
			expected: tlv.Hex("00 A4 04 00 02 A000 00"),
		},
		{
			name:     "No Data With Specific Le",
			cmd:      &CommandAPDU{Cla: 0x00, Ins: InsGetResponse, Ne: 0x1C},
			expected: tlv.Hex("00 C0 00 00 1C"),
		},
		{
			name:     "Proprietary Class",
			cmd:      &CommandAPDU{Cla: ClaProprietary, Ins: InsGetProcessingOptions, Data: tlv.Hex("83 00"), Ne: MaxResponse},
			expected: tlv.Hex("80 A8 00 00 02 83 00 00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Bytes()
			if err != nil {
				t.Fatalf("Bytes() error: %v", err)
			}
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("Bytes() = %X, want %X", got, tt.expected)
			}
		})
	}
}

func TestCommandAPDU_Bytes_DataTooLong(t *testing.T) {
	cmd := &CommandAPDU{Cla: 0x00, Ins: InsSelect, Data: make([]byte, MaxData+1)}
	if _, err := cmd.Bytes(); err == nil {
		t.Error("expected error for data beyond single length byte, got nil")
	}
}

func TestCommandAPDU_Bytes_NeOutOfRange(t *testing.T) {
	cmd := &CommandAPDU{Cla: 0x00, Ins: InsSelect, Ne: MaxResponse + 1}
	if _, err := cmd.Bytes(); err == nil {
		t.Error("expected error for Ne beyond short limit, got nil")
	}
}

func TestParseResponse(t *testing.T) {
	resp, err := ParseResponse(tlv.Hex("01 02 03 90 00"))
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	if !bytes.Equal(resp.Data, tlv.Hex("01 02 03")) {
		t.Errorf("Data = %X, want 010203", resp.Data)
	}
	if resp.Status != SWNoError {
		t.Errorf("Status = %04X, want 9000", uint16(resp.Status))
	}
}

func TestParseResponse_StatusOnly(t *testing.T) {
	resp, err := ParseResponse(tlv.Hex("6A 82"))
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("Data = %X, want empty", resp.Data)
	}
	if resp.Status != SWFileNotFound {
		t.Errorf("Status = %04X, want 6A82", uint16(resp.Status))
	}
}

func TestParseResponse_TooShort(t *testing.T) {
	if _, err := ParseResponse([]byte{0x90}); err == nil {
		t.Error("expected error for one-byte response, got nil")
	}
}

func TestSelectByName(t *testing.T) {
	got, err := SelectByName([]byte("2PAY.SYS.DDF01")).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	expected := tlv.Hex(
		"00 A4 04 00", // CLA, INS, P1 (by DF name), P2
		"0E",          // Lc
		"32 50 41 59 2E 53 59 53 2E 44 44 46 30 31", // "2PAY.SYS.DDF01"
		"00", // Le
	)
	if !bytes.Equal(got, expected) {
		t.Errorf("SelectByName() = %X, want %X", got, expected)
	}
}

func TestReadRecord(t *testing.T) {
	tests := []struct {
		name     string
		sfi      byte
		record   byte
		expected []byte
	}{
		{"SFI 1 Record 1", 0x01, 0x01, tlv.Hex("00 B2 01 0C 00")},
		{"SFI 2 Record 3", 0x02, 0x03, tlv.Hex("00 B2 03 14 00")},
		{"SFI With High Bits Masked", 0b111_00011, 0x07, tlv.Hex("00 B2 07 1C 00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadRecord(tt.sfi, tt.record).Bytes()
			if err != nil {
				t.Fatalf("Bytes() error: %v", err)
			}
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("ReadRecord(%d, %d) = %X, want %X", tt.sfi, tt.record, got, tt.expected)
			}
		})
	}
}

func TestGetResponse(t *testing.T) {
	got, err := GetResponse(0x2A).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if !bytes.Equal(got, tlv.Hex("00 C0 00 00 2A")) {
		t.Errorf("GetResponse(0x2A) = %X", got)
	}

	got, err = GetResponse(0x00).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if !bytes.Equal(got, tlv.Hex("00 C0 00 00 00")) {
		t.Errorf("GetResponse(0x00) = %X", got)
	}
}

package iso7816

import (
	"github.com/gregLibert/pan-reader/pkg/bits"
)

// Command builders for the generic ISO 7816-4 commands issued during PAN
// discovery. The EMV-specific GET PROCESSING OPTIONS framing lives with the
// EMV logic.

// SelectByName builds a SELECT command targeting a DF by name (an AID or a
// directory name such as "2PAY.SYS.DDF01"): P1 0x04 selects by DF name, P2
// 0x00 requests the FCI of the first occurrence.
func SelectByName(name []byte) *CommandAPDU {
	return &CommandAPDU{
		Cla:  ClaInterindustry,
		Ins:  InsSelect,
		P1:   0x04,
		P2:   0x00,
		Data: name,
		Ne:   MaxResponse,
	}
}

// recordNumberMode is the reference-control mode in the low three bits of
// P2: P1 holds a record number within the file identified by the SFI.
const recordNumberMode = 0b100

// ReadRecord builds a READ RECORD command for one record of the file
// identified by the 5-bit short file identifier.
func ReadRecord(sfi, record byte) *CommandAPDU {
	return &CommandAPDU{
		Cla: ClaInterindustry,
		Ins: InsReadRecord,
		P1:  record,
		P2:  bits.GetRange(sfi, 5, 1)<<3 | recordNumberMode,
		Ne:  MaxResponse,
	}
}

// GetResponse builds the GET RESPONSE command retrieving the bytes a 61XX
// status announced; 0 asks for a full short response.
func GetResponse(length byte) *CommandAPDU {
	ne := int(length)
	if ne == 0 {
		ne = MaxResponse
	}
	return &CommandAPDU{
		Cla: ClaInterindustry,
		Ins: InsGetResponse,
		P1:  0x00,
		P2:  0x00,
		Ne:  ne,
	}
}

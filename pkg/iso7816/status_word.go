package iso7816

import (
	"fmt"
)

// StatusWord represents the two-byte status trailer (SW1-SW2) returned by
// the card.
type StatusWord uint16

// NewStatusWord creates a StatusWord instance from two separate bytes.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the first byte (high byte) of the status word.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the second byte (low byte) of the status word.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// IsSuccess reports whether the command was processed successfully (9000).
func (sw StatusWord) IsSuccess() bool {
	return sw == SWNoError
}

// HasMoreData reports whether response data is still available (61XX);
// SW2 carries the number of bytes waiting for a GET RESPONSE.
func (sw StatusWord) HasMoreData() bool {
	return sw.SW1() == 0x61
}

// IsWrongLe reports whether the card rejected the expected length (6CXX);
// SW2 carries the correct Le for a re-issue.
func (sw StatusWord) IsWrongLe() bool {
	return sw.SW1() == 0x6C
}

// Verbose returns a human-readable description of the status word.
func (sw StatusWord) Verbose() string {
	if sw.HasMoreData() {
		return fmt.Sprintf("[%04X] process completed, %d bytes available", uint16(sw), sw.SW2())
	}
	if sw.IsWrongLe() {
		return fmt.Sprintf("[%04X] wrong length, correct Le is %d", uint16(sw), sw.SW2())
	}
	return fmt.Sprintf("[%04X] %s", uint16(sw), sw.describe())
}

func (sw StatusWord) describe() string {
	switch sw {
	case SWNoError:
		return "no error"
	case SWWrongLength:
		return "wrong length"
	case SWSecurityNotSatisfied:
		return "security status not satisfied"
	case SWConditionsNotSatisfied:
		return "conditions of use not satisfied"
	case SWWrongData:
		return "incorrect command data"
	case SWFunctionNotSupported:
		return "function not supported"
	case SWFileNotFound:
		return "file or application not found"
	case SWRecordNotFound:
		return "record not found"
	case SWWrongP1P2:
		return "incorrect P1/P2"
	case SWInsInvalid:
		return "instruction not supported"
	case SWClaNotSupported:
		return "class not supported"
	}

	switch sw.SW1() {
	case 0x62, 0x63:
		return "warning"
	case 0x64, 0x65, 0x66:
		return "execution error"
	case 0x67, 0x68, 0x69, 0x6A, 0x6B:
		return "checking error"
	}
	return "unknown status"
}

// Status word values met during EMV PAN discovery.
const (
	SWNoError                StatusWord = 0x9000
	SWWrongLength            StatusWord = 0x6700
	SWSecurityNotSatisfied   StatusWord = 0x6982
	SWConditionsNotSatisfied StatusWord = 0x6985
	SWWrongData              StatusWord = 0x6A80
	SWFunctionNotSupported   StatusWord = 0x6A81
	SWFileNotFound           StatusWord = 0x6A82
	SWRecordNotFound         StatusWord = 0x6A83
	SWWrongP1P2              StatusWord = 0x6B00
	SWInsInvalid             StatusWord = 0x6D00
	SWClaNotSupported        StatusWord = 0x6E00
)

// StatusError reports a card response whose status word was not 9000.
type StatusError struct {
	SW StatusWord
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("card returned error status %s", e.SW.Verbose())
}

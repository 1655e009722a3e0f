/*
Package iso7816 implements the APDU (Application Protocol Data Unit) layer
used to talk to contactless EMV cards.

The communication with a card is strictly synchronous:
 1. The host sends a Command APDU (Header + Optional Body).
 2. The card processes it and returns a Response APDU (Optional Body + Trailer SW1/SW2).

Every response ends with a 2-byte Status Word (SW):
  - 0x9000: Success (OK).
  - 0x61XX: Success, but response data is still available (XX bytes).
  - 0x6CXX: Error, wrong length expectation (XX is the correct length).
  - Other: Various error conditions.

Only short-length encoding is supported: none of the commands issued during
PAN discovery carries more than 255 data bytes, so extended length never
comes into play.
*/
package iso7816

package emv

import (
	"fmt"

	"github.com/gregLibert/pan-reader/pkg/iso7816"
	"github.com/gregLibert/pan-reader/pkg/tlv"
)

// Exchanger performs one APDU round trip and returns the card's response
// payload with transport framing and the status word already stripped.
type Exchanger interface {
	Exchange(apdu []byte) ([]byte, error)
}

// Logger receives progress and diagnostic messages; it never influences
// control flow. The stdlib *log.Logger implements it.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// ppseName is the payment system directory selected to discover the card's
// payment application.
const ppseName = "2PAY.SYS.DDF01"

// Attempt budgets per protocol step. PPSE selection and record reads get a
// single try: a card that fails the former is not an EMV card, and a
// record that fails to read is simply skipped.
const (
	selectAttempts = 3
	gpoAttempts    = 3
)

// Reader sequences the EMV exchanges that lead to a PAN. One Reader drives
// one card at a time; the zero value is not usable, use NewReader.
type Reader struct {
	exch Exchanger
	log  Logger
}

// NewReader creates a Reader over the given exchanger. A nil logger
// silences diagnostics.
func NewReader(exch Exchanger, log Logger) *Reader {
	if log == nil {
		log = nopLogger{}
	}
	return &Reader{exch: exch, log: log}
}

// ReadPAN walks the card to its Primary Account Number:
//
//  1. SELECT the payment system directory (PPSE) and pick up the AID.
//  2. SELECT the application and pick up its PDOL, if any.
//  3. GET PROCESSING OPTIONS with synthesized terminal data. Some cards
//     answer with Track 2 data directly; that concludes the read.
//  4. Otherwise read every record the application file locator names and
//     take the first track or PAN field that parses.
//
// Any step failing beyond its attempt budget aborts the whole read; no
// partial result is carried forward.
func (r *Reader) ReadPAN() (*PAN, error) {
	aid, err := r.selectPPSE()
	if err != nil {
		return nil, err
	}

	pdol, err := r.selectApplication(aid)
	if err != nil {
		return nil, err
	}

	gpo, err := r.processingOptions(pdol)
	if err != nil {
		return nil, err
	}

	if track2 := tlv.Find(gpo, TagTrack2); len(track2) > 0 {
		r.log.Printf("GPO response carries track 2 data directly")
		if pan := ParseTrack2(track2); pan != nil {
			return pan, nil
		}
		return nil, fmt.Errorf("%w: direct track 2 data did not parse", ErrPANNotFound)
	}

	afl := tlv.Find(gpo, TagAFL)
	if afl == nil {
		return nil, ErrNoAFL
	}
	entries, err := ParseAFL(afl)
	if err != nil {
		return nil, err
	}

	return r.scanRecords(entries)
}

func (r *Reader) selectPPSE() ([]byte, error) {
	r.log.Printf("selecting payment system directory %s", ppseName)

	resp, err := r.send(iso7816.SelectByName([]byte(ppseName)), 1, "SELECT PPSE")
	if err != nil {
		return nil, err
	}

	aid := tlv.Find(resp, TagAID)
	if len(aid) == 0 {
		return nil, ErrNoApplication
	}
	r.log.Printf("found application %X", aid)
	return aid, nil
}

// selectApplication returns the application's PDOL; a card that requires
// no processing options returns nil, which is valid.
func (r *Reader) selectApplication(aid []byte) ([]byte, error) {
	resp, err := r.send(iso7816.SelectByName(aid), selectAttempts, "SELECT AID")
	if err != nil {
		return nil, err
	}

	if fci, err := ParseFCI(resp); err == nil {
		r.log.Printf("selected application %q", fci.Label())
	}

	return tlv.Find(resp, TagPDOL), nil
}

func (r *Reader) processingOptions(pdol []byte) ([]byte, error) {
	pdolData := SynthesizePDOL(pdol)

	// The PDOL data travels wrapped in the command template data object.
	data := make([]byte, 0, 2+len(pdolData))
	data = append(data, byte(TagCommandTemplate), byte(len(pdolData)))
	data = append(data, pdolData...)

	cmd := &iso7816.CommandAPDU{
		Cla:  iso7816.ClaProprietary,
		Ins:  iso7816.InsGetProcessingOptions,
		P1:   0x00,
		P2:   0x00,
		Data: data,
		Ne:   iso7816.MaxResponse,
	}

	return r.send(cmd, gpoAttempts, "GET PROCESSING OPTIONS")
}

// scanRecords reads every record the AFL names until one of them yields a
// PAN. Unreadable records are skipped, not retried.
func (r *Reader) scanRecords(entries []AFLEntry) (*PAN, error) {
	for _, entry := range entries {
		for record := entry.First; ; record++ {
			payload, err := r.send(iso7816.ReadRecord(entry.SFI, record), 1, "READ RECORD")
			if err != nil {
				r.log.Printf("record %d of SFI %d unreadable: %v", record, entry.SFI, err)
			} else if pan := extractPAN(payload); pan != nil {
				r.log.Printf("PAN found in record %d of SFI %d (%s)", record, entry.SFI, pan.Source)
				return pan, nil
			}

			if record == entry.Last {
				break
			}
		}
	}
	return nil, ErrPANNotFound
}

// extractPAN tries the PAN-bearing fields of a record in priority order. A
// field that is present but fails its format validation just yields to the
// next candidate.
func extractPAN(record []byte) *PAN {
	if v := tlv.Find(record, TagTrack2); len(v) > 0 {
		if pan := ParseTrack2(v); pan != nil {
			return pan
		}
	}
	if v := tlv.Find(record, TagTrack1); len(v) > 0 {
		if pan := ParseTrack1(v); pan != nil {
			return pan
		}
	}
	if v := tlv.Find(record, TagPAN); len(v) > 0 {
		if pan := ParsePANField(v); pan != nil {
			return pan
		}
	}
	return nil
}

// send encodes and transmits a command, retrying transport and status word
// failures up to the step's attempt budget.
func (r *Reader) send(cmd *iso7816.CommandAPDU, attempts int, step string) ([]byte, error) {
	raw, err := cmd.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		payload, err := r.exch.Exchange(raw)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if attempt < attempts {
			r.log.Printf("%s attempt %d failed: %v", step, attempt, err)
		}
	}

	if attempts > 1 {
		return nil, fmt.Errorf("%s failed after %d attempts: %w", step, attempts, lastErr)
	}
	return nil, fmt.Errorf("%s: %w", step, lastErr)
}

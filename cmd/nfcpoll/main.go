// Command nfcpoll polls a libnfc reader for contactless cards and reads the
// PAN from each card that presents itself.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/clausecker/nfc/v2"

	"github.com/gregLibert/pan-reader/pkg/emv"
	"github.com/gregLibert/pan-reader/pkg/iso7816"
	"github.com/gregLibert/pan-reader/pkg/nfctag"
)

func main() {
	connString := flag.String("device", "", "libnfc connection string (empty selects the first reader)")
	delay := flag.Duration("retry-delay", 2*time.Second, "pause after a polling error")
	flag.Parse()

	device, err := nfc.Open(*connString)
	if err != nil {
		log.Fatalf("Failed to open connection to reader: %v", err)
	}
	defer device.Close()

	log.Printf("connected to reader: %s", device.String())

	if err := device.InitiatorInit(); err != nil {
		log.Fatalf("Failed to init as initiator: %v", err)
	}

	modulation := nfc.Modulation{Type: nfc.ISO14443a, BaudRate: nfc.Nbr106}

	for {
		targets, err := device.InitiatorListPassiveTargets(modulation)
		if err != nil {
			log.Printf("failed to list passive targets: %v", err)
			time.Sleep(*delay)
			continue
		}

		for _, t := range targets {
			tt, ok := t.(*nfc.ISO14443aTarget)
			if !ok {
				log.Printf("not an ISO14443aTarget: %T", t)
				continue
			}

			uid := tt.UID[0:tt.UIDLen]

			// ISO14443-4 support is required for APDU exchange.
			if tt.Sak&0x20 == 0 {
				log.Printf("target %X does not support ISO14443-4", uid)
				continue
			}

			if _, err := device.InitiatorSelectPassiveTarget(modulation, uid); err != nil {
				log.Printf("failed to select target %X: %v", uid, err)
				continue
			}

			pan, err := emv.NewReader(&deviceExchanger{device}, log.Default()).ReadPAN()
			if err != nil {
				log.Printf("failed to read target %X: %v", uid, err)
			}
			fmt.Println(nfctag.New(uid, pan))

			if err := device.InitiatorDeselectTarget(); err != nil {
				log.Printf("failed to deselect target %X: %v", uid, err)
			}
		}
	}
}

// deviceExchanger adapts a libnfc device to the APDU exchange contract. The
// reader chip handles ISO14443-4 framing itself, so the raw APDU goes out
// as-is and the response comes back payload-plus-status-word.
type deviceExchanger struct {
	device nfc.Device
}

func (e *deviceExchanger) Exchange(apdu []byte) ([]byte, error) {
	rx := make([]byte, iso7816.MaxResponse+2)

	n, err := e.device.InitiatorTransceiveBytes(apdu, rx, 0)
	if err != nil {
		return nil, fmt.Errorf("transceive failed: %w", err)
	}

	resp, err := iso7816.ParseResponse(rx[:n])
	if err != nil {
		return nil, err
	}
	if !resp.Status.IsSuccess() {
		return nil, &iso7816.StatusError{SW: resp.Status}
	}
	return resp.Data, nil
}

package main

import (
	"fmt"
	"log"

	"github.com/ebfe/scard"

	"github.com/gregLibert/pan-reader/pkg/emv"
	"github.com/gregLibert/pan-reader/pkg/nfctag"
	"github.com/gregLibert/pan-reader/pkg/pcsc"
)

func main() {
	ctx, card := connectToCard()

	defer func() {
		if err := ctx.Release(); err != nil {
			log.Printf("Warning: Failed to release context: %v", err)
		}
	}()

	defer func() {
		if err := card.Disconnect(scard.LeaveCard); err != nil {
			log.Printf("Warning: Failed to disconnect card: %v", err)
		}
	}()

	uid, err := getUID(card)
	if err != nil {
		log.Printf("Warning: %v", err)
	}

	reader := emv.NewReader(pcsc.NewExchanger(card), log.Default())

	pan, err := reader.ReadPAN()
	if err != nil {
		log.Printf("Card read failed: %v", err)
	}

	// A failed read still produces a tag, just without account data.
	tag := nfctag.New(uid, pan)
	fmt.Println(tag)
}

// connectToCard handles the PC/SC context establishment and reader connection.
func connectToCard() (*scard.Context, *scard.Card) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		log.Fatalf("Error establishing context: %s", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatal("No smart card reader found.")
	}

	fmt.Printf(">> Using reader: %s\n", readers[0])

	// Force T=0 or T=1 to avoid "Parameter Incorrect" errors (Error 57)
	card, err := ctx.Connect(readers[0], scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatalf("Error connecting to card: %s", err)
	}

	return ctx, card
}

// getUID fetches the card UID through the reader's GET DATA pseudo-APDU.
// Some readers insist on an exact Le, so both forms are tried.
func getUID(card *scard.Card) ([]byte, error) {
	exch := pcsc.NewExchanger(card)
	for _, le := range []byte{0x00, 0x04} {
		uid, err := exch.Exchange([]byte{0xFF, 0xCA, 0x00, 0x00, le})
		if err == nil && len(uid) > 0 {
			return uid, nil
		}
	}
	return nil, fmt.Errorf("UID not available via GET DATA")
}

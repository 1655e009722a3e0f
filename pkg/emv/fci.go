package emv

import (
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"
)

// FCI is the diagnostic view of the File Control Information a card returns
// to SELECT. It only carries the fields worth reporting while reading a
// card; the orchestrator itself works on the raw TLV data.
type FCI struct {
	DFName           []byte
	ApplicationLabel string
	PreferredName    string
	PDOL             []byte
}

// ParseFCI decodes a SELECT response into its FCI summary. The data may or
// may not be wrapped in the 6F template.
func ParseFCI(data []byte) (*FCI, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty FCI data")
	}

	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding FCI: %w", err)
	}

	if wrapper := findPacket(packets, "6F"); wrapper != nil {
		packets = wrapper.TLVs
	}

	fci := &FCI{}
	if p := findPacket(packets, "84"); p != nil {
		fci.DFName = p.Value
	}
	if proprietary := findPacket(packets, "A5"); proprietary != nil {
		if p := findPacket(proprietary.TLVs, "50"); p != nil {
			fci.ApplicationLabel = safeASCII(p.Value)
		}
		if p := findPacket(proprietary.TLVs, "9F12"); p != nil {
			fci.PreferredName = safeASCII(p.Value)
		}
		if p := findPacket(proprietary.TLVs, "9F38"); p != nil {
			fci.PDOL = p.Value
		}
	}
	return fci, nil
}

// Label returns the best human-readable name the FCI offers.
func (f *FCI) Label() string {
	if f.PreferredName != "" {
		return f.PreferredName
	}
	if f.ApplicationLabel != "" {
		return f.ApplicationLabel
	}
	return fmt.Sprintf("%X", f.DFName)
}

func findPacket(packets []bertlv.TLV, tag string) *bertlv.TLV {
	for i := range packets {
		if strings.EqualFold(packets[i].Tag, tag) {
			return &packets[i]
		}
	}
	return nil
}

func safeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}

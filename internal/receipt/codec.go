// Package receipt parses and strips the delimited receipt block the
// completion engine embeds in its final reply.
package receipt

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/brewandco/brew-counter/internal/model/order"
)

// Literal delimiters of the receipt block wire format. The system prompt
// instructs the engine to emit exactly these markers.
const (
	StartMarker = "ORDER_RECEIPT_START"
	EndMarker   = "ORDER_RECEIPT_END"
)

var (
	blockPattern    = regexp.MustCompile(`(?s)ORDER_RECEIPT_START\s*(.*?)\s*ORDER_RECEIPT_END`)
	emphasisPattern = regexp.MustCompile("[*_~`]")
)

// Extract locates the receipt block in an agent reply and decodes it.
// Absence of a block is the common case (mid-conversation replies), so all
// failure modes report (nil, false) and never propagate: no block, malformed
// JSON, empty items, or invariant-violating prices and quantities. Only the
// first block is recognized; extras are logged and ignored.
func Extract(reply string) (*order.Receipt, bool) {
	matches := blockPattern.FindAllStringSubmatch(reply, -1)
	if len(matches) == 0 {
		return nil, false
	}
	if len(matches) > 1 {
		log.Printf("[receipt] reply contains %d receipt blocks, extracting the first", len(matches))
	}

	var rec order.Receipt
	if err := json.Unmarshal([]byte(matches[0][1]), &rec); err != nil {
		log.Printf("[receipt] malformed receipt block: %v", err)
		return nil, false
	}

	if len(rec.Items) == 0 {
		return nil, false
	}
	for i := range rec.Items {
		if rec.Items[i].Price < 0 {
			return nil, false
		}
		// Engines occasionally omit quantity for single items.
		if rec.Items[i].Quantity < 1 {
			rec.Items[i].Quantity = 1
		}
	}

	return &rec, true
}

// Strip removes any receipt blocks and inline emphasis markup from a reply,
// producing text fit for display and for speech synthesis input. Stripping
// text without a block returns it unchanged apart from trimming, and Strip
// is idempotent on its own output.
func Strip(reply string) string {
	cleaned := blockPattern.ReplaceAllString(reply, "")
	cleaned = emphasisPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

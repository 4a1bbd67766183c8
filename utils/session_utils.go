// api/utils/session_utils.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"
)

// NewSessionID mints a funnel session identifier: millisecond timestamp
// plus a random hex suffix. The same format the storefront recorder
// attaches to cart attributes, so ids sort roughly by creation time.
func NewSessionID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		log.Printf("ERROR: Failed to generate random bytes for session ID: %v", err)
		return fmt.Sprintf("%d-%d", time.Now().UnixMilli(), time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}

// Package payment holds the payment-id helpers shared by the booking flows.
package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idPrefix = "PAY"

// GenerateID produces a token like PAY-20260111-123045-ABC123: prefix, date
// and time to the second, and a short random suffix. Uniqueness is
// best-effort, not guaranteed by construction.
func GenerateID() string {
	now := time.Now()
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s-%s", idPrefix, now.Format("20060102"), now.Format("150405"), suffix)
}

// NormalizeID maps empty, whitespace-only and the literal string "null"
// (case-insensitive) to absent, and trims everything else.
func NormalizeID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

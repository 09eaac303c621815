package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateInvoiceNo generates a unique invoice number, e.g. "OR-20260314-1A2B3C4D"
func GenerateInvoiceNo(prefix string, at time.Time) string {
	return prefix + "-" + at.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}

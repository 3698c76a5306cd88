// Package scan extracts structured fields from decoded QR payloads.
//
// Payloads loosely follow "BIN=<id> | WARD=<name>" with |, comma,
// semicolon or newline delimiters. A field that does not match is left
// empty so the picker can fill it in manually; parsing never fails.
package scan

import (
	"regexp"
	"strings"

	"github.com/nurpe/wasteops-portal/internal/model"
)

var (
	binPattern  = regexp.MustCompile(`(?i)BIN[:=]?\s*([^|,;\n\r]+)`)
	wardPattern = regexp.MustCompile(`(?i)WARD[:=]?\s*([^|,;\n\r]+)`)
)

func Parse(decoded string) model.ScanFields {
	return model.ScanFields{
		BinID: extract(binPattern, decoded),
		Ward:  extract(wardPattern, decoded),
	}
}

func extract(pattern *regexp.Regexp, decoded string) string {
	match := pattern.FindStringSubmatch(decoded)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}

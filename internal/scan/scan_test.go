package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		decoded string
		binID   string
		ward    string
	}{
		{
			name:    "pipe delimited demo payload",
			decoded: "BIN=DEMO_BIN_001 | WARD=Demo Ward",
			binID:   "DEMO_BIN_001",
			ward:    "Demo Ward",
		},
		{
			name:    "colon separator",
			decoded: "bin: B-17; ward: North Zone",
			binID:   "B-17",
			ward:    "North Zone",
		},
		{
			name:    "newline delimited",
			decoded: "BIN=QX9\nWARD=Ward 25",
			binID:   "QX9",
			ward:    "Ward 25",
		},
		{
			name:    "no bin token leaves bin empty",
			decoded: "WARD=Ward 3",
			binID:   "",
			ward:    "Ward 3",
		},
		{
			name:    "garbage payload yields nothing",
			decoded: "hello world",
			binID:   "",
			ward:    "",
		},
		{
			name:    "empty payload",
			decoded: "",
			binID:   "",
			ward:    "",
		},
		{
			name:    "surrounding whitespace trimmed",
			decoded: "BIN=  B42  ,WARD=  Central  ",
			binID:   "B42",
			ward:    "Central",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := Parse(tt.decoded)
			assert.Equal(t, tt.binID, fields.BinID)
			assert.Equal(t, tt.ward, fields.Ward)
		})
	}
}

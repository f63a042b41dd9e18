package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{name: "zero", bytes: 0, want: "0 Bytes"},
		{name: "negative", bytes: -5, want: "0 Bytes"},
		{name: "single byte", bytes: 1, want: "1 Bytes"},
		{name: "below one kilobyte", bytes: 1023, want: "1023 Bytes"},
		{name: "one kilobyte", bytes: 1024, want: "1 KB"},
		{name: "fractional kilobytes", bytes: 1536, want: "1.5 KB"},
		{name: "one megabyte", bytes: 1048576, want: "1 MB"},
		{name: "two million bytes", bytes: 2000000, want: "1.91 MB"},
		{name: "one gigabyte", bytes: 1073741824, want: "1 GB"},
		{name: "terabyte stays in gigabytes", bytes: 1099511627776, want: "1024 GB"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatFileSize(tc.bytes))
		})
	}
}

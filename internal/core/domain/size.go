package domain

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders bytes in base 1024 with at most two decimals, e.g. "1.91 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	const unit = 1024
	div, exp := int64(1), 0
	for bytes/div >= unit && exp < len(sizeUnits)-1 {
		div *= unit
		exp++
	}

	value := math.Round(float64(bytes)/float64(div)*100) / 100

	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[exp]
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "decode", err: fmt.Errorf("%w: %w", ErrDecode, errors.New("invalid JPEG format")), want: msgDecode},
		{name: "encode", err: fmt.Errorf("%w: out of memory", ErrEncode), want: msgEncode},
		{name: "timeout", err: fmt.Errorf("%w: %w", ErrTimeout, context.DeadlineExceeded), want: msgTimeout},
		{name: "read", err: fmt.Errorf("%w: unexpected status code", ErrRead), want: msgRead},
		{name: "no source", err: ErrNoSource, want: msgNoSource},
		{name: "no result", err: ErrNoResult, want: msgNoResult},
		{name: "quality", err: ErrInvalidQuality, want: msgQuality},
		{name: "unknown", err: errors.New("boom"), want: msgGeneric},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := UserMessage(tc.err)
			assert.Equal(t, tc.want, got)
			if tc.err != nil {
				assert.NotContains(t, got, "invalid JPEG format")
			}
		})
	}
}

func TestParseQualityPercent(t *testing.T) {
	tests := []struct {
		description string
		arg         string
		want        int
		wantErr     bool
	}{
		{description: "plain number", arg: "30", want: 30},
		{description: "percent suffix", arg: "30%", want: 30},
		{description: "surrounding spaces", arg: " 75 ", want: 75},
		{description: "lower bound", arg: "0", want: 0},
		{description: "upper bound", arg: "100", want: 100},
		{description: "above range", arg: "101", wantErr: true},
		{description: "below range", arg: "-1", wantErr: true},
		{description: "not a number", arg: "high", wantErr: true},
		{description: "empty", arg: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			got, err := ParseQualityPercent(tc.arg)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuality)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQualityPercentRoundTrip(t *testing.T) {
	for _, percent := range []int{0, 1, 29, 30, 57, 80, 100} {
		assert.Equal(t, percent, QualityFromPercent(percent).Percent())
	}
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "compressed_holiday.jpg", DownloadName("holiday.jpg"))
}

func TestSavedPercent(t *testing.T) {
	assert.InDelta(t, 75.0, SavedPercent(400, 100), 0.001)
	assert.InDelta(t, -50.0, SavedPercent(100, 150), 0.001)
	assert.Zero(t, SavedPercent(0, 10))
}

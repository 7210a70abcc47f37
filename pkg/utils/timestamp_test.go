package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFrameTimestamp(t *testing.T) {
	cases := []struct {
		frame int
		want  string
	}{
		{1, "00:00:01"},
		{15, "00:00:15"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{61, "00:01:01"},
		{119, "00:01:59"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatFrameTimestamp(c.frame))
	}
}

func TestFormatFrameTimestampSequence(t *testing.T) {
	// a 15 second video yields frames 1..15 stamped 00:00:01..00:00:15
	for n := 1; n <= 15; n++ {
		want := FormatSeconds(n)
		assert.Equal(t, want, FormatFrameTimestamp(n))
	}
	assert.Equal(t, "00:00:01", FormatFrameTimestamp(1))
	assert.Equal(t, "00:00:15", FormatFrameTimestamp(15))
}

// File: internal/tokenutil/tokenutil_test.go
package tokenutil

import (
	"strings"
	"testing"
)

func TestEstimate(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"empty content still counts one token", "", 1},
		{"short content rounds up to one", "abc", 1},
		{"forty characters estimate ten tokens", strings.Repeat("a", 40), 10},
		{"remainder is truncated", strings.Repeat("a", 43), 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Estimate(tc.content); got != tc.want {
				t.Fatalf("Estimate(%d chars) = %d, want %d", len(tc.content), got, tc.want)
			}
		})
	}
}

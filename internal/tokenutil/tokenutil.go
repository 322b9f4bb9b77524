package tokenutil

// Estimate returns a rough token count for text, assuming ~4 characters per
// token, never less than 1.
func Estimate(content string) int {
	n := len(content) / 4
	if n < 1 {
		return 1
	}
	return n
}

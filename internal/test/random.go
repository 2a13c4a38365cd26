package test

import "math/rand/v2"

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns an alphanumeric string with length in [minLen, maxLen].
func RandomString(minLen, maxLen int) string {
	minLen = max(minLen, 1)
	maxLen = max(maxLen, minLen)
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(buf)
}

// RandomMail returns a unique-looking lower-case address on domain.
func RandomMail(domain string) string {
	local := []byte(RandomString(6, 12))
	for i, ch := range local {
		if ch >= 'A' && ch <= 'Z' {
			local[i] = ch + ('a' - 'A')
		}
	}
	return string(local) + "@" + domain
}

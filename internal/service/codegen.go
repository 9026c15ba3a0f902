package service

import (
	"context"
	"math/rand"
	"strings"
)

// codeAlphabet excludes visually similar characters (0/O, 1/l/I) so codes
// survive being read over the phone or off a shelf label. Codes are stored
// uppercase only.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const (
	productCodeLength = 4
	// codeMaxAttempts bounds the generate-and-verify loop. With 32^4
	// possible codes the bound is never hit in practice; it exists so a
	// nearly full code space fails loudly instead of spinning.
	codeMaxAttempts = 64
)

// randomProductCode draws one candidate code.
func randomProductCode() string {
	var b strings.Builder
	b.Grow(productCodeLength)
	for i := 0; i < productCodeLength; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// generateProductCode returns a code not currently in use according to
// exists. The DB unique index remains the final arbiter: a concurrent
// insert between the check and the commit surfaces as a duplicate-key
// error and the caller retries.
func generateProductCode(ctx context.Context, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	for i := 0; i < codeMaxAttempts; i++ {
		code := randomProductCode()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

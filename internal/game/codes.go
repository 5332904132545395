package game

import "crypto/rand"

// Alphabet without 0/O/1/I so codes survive being read out loud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type randCodeGenerator struct{}

// NewCodeGenerator returns the default crypto/rand-backed code generator.
func NewCodeGenerator() CodeGenerator {
	return randCodeGenerator{}
}

func (randCodeGenerator) Generate(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	code := make([]byte, length)
	for i := range code {
		code[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(code), nil
}

package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

const pairingCodeDigits = 9

// generatePairingCode devuelve el código en claro y su hash salado "salt:hash".
func generatePairingCode() (string, string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		return "", "", err
	}
	code := fmt.Sprintf("%0*d", pairingCodeDigits, n.Int64())

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}
	saltStr := base64.StdEncoding.EncodeToString(salt)
	return code, saltStr + ":" + hashPairingCode(saltStr, code), nil
}

func hashPairingCode(salt, code string) string {
	sum := sha256.Sum256([]byte(salt + ":" + code))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func verifyPairingCode(code, stored string) bool {
	salt, expected, ok := strings.Cut(stored, ":")
	if !ok || salt == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hashPairingCode(salt, code)), []byte(expected)) == 1
}

// normalizePairingCode quita separadores ("123-456-789") y valida los dígitos.
func normalizePairingCode(code string) (string, bool) {
	var b strings.Builder
	for _, r := range code {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
		default:
			return "", false
		}
	}
	out := b.String()
	return out, len(out) == pairingCodeDigits
}

// FormatPairingCode agrupa el código de a tres dígitos para mostrarlo.
func FormatPairingCode(code string) string {
	if len(code) != pairingCodeDigits {
		return code
	}
	return code[0:3] + "-" + code[3:6] + "-" + code[6:9]
}

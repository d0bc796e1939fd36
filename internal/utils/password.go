package utils

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	alphaNum       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	passwordChars  = alphaNum + "!#$%&*+-=?@^_"
	generatedEmail = "@yandex.com"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// RandomString returns n characters drawn uniformly from alphabet using
// crypto/rand.
func RandomString(n int, alphabet string) (string, error) {
	if n <= 0 || len(alphabet) == 0 || len(alphabet) > 256 {
		return "", errors.New("invalid random string parameters")
	}
	// reject bytes above the largest multiple of len(alphabet) to avoid modulo bias
	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// RandomEmail builds an unguessable address for accounts provisioned
// through a social login.
func RandomEmail() (string, error) {
	local, err := RandomString(8, alphaNum)
	if err != nil {
		return "", err
	}
	return local + generatedEmail, nil
}

// RandomPassword returns a 16 character password nobody is told about.
func RandomPassword() (string, error) {
	return RandomString(16, passwordChars)
}

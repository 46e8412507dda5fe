package services

import (
	"crypto/rand"
	"math/big"

	"github.com/yungbote/classroom-backend/internal/domain/classroom"
)

// NewJoinCode draws a code uniformly from the unambiguous alphabet.
func NewJoinCode() (string, error) {
	max := big.NewInt(int64(len(classroom.JoinCodeAlphabet)))
	b := make([]byte, classroom.JoinCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = classroom.JoinCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

package gameplay

import (
	"crypto/ed25519"
	"fmt"
	"strconv"

	"github.com/btcsuite/btcutil/base58"
)

// SignatureVerifier checks that a message was signed by the wallet behind an identity
//
//go:generate mockgen -source=verifier.go -destination=../mocks/signature_verifier.go -package=mocks -mock_names=SignatureVerifier=MockSignatureVerifier
type SignatureVerifier interface {
	// Verify reports whether signature is a valid signature of message by identity.
	// identity and signature are base58 encoded.
	Verify(identity string, message []byte, signature string) bool
}

type ed25519Verifier struct{}

// NewSignatureVerifier creates an ed25519 verifier for Solana wallet keys
func NewSignatureVerifier() SignatureVerifier {
	return ed25519Verifier{}
}

func (ed25519Verifier) Verify(identity string, message []byte, signature string) bool {
	pub := base58.Decode(identity)
	if len(pub) != ed25519.PublicKeySize {
		return false
	}

	sig := base58.Decode(signature)
	if len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}

// SubmissionMessage is the canonical text a wallet signs to vouch for a game result
func SubmissionMessage(identity string, profit, volume float64) []byte {
	return fmt.Appendf(nil, "solspace:game-event:%s:%s:%s",
		identity,
		strconv.FormatFloat(profit, 'f', -1, 64),
		strconv.FormatFloat(volume, 'f', -1, 64),
	)
}

package nodeconfig

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"
	"time"

	"github.com/holiman/uint256"
	"github.com/mr-tron/base58"
)

// Key material of the default genesis account. Every sandbox starts with
// this account funded, so test suites have a known signer out of the box.
const (
	DefaultAccountID  = "sandbox"
	DefaultPrivateKey = "ed25519:3tgdk2wPraJzT4nsTuf86UX41xgPNk3MHnq8epARMdBNs29AFEztAuaQ7iHddDfXG9F2RzV1XNQYgJyAyoW51UBB"
	DefaultPublicKey  = "ed25519:5BGSaf6YjVm7565VzWQHNxoyEjwr3jUpRJSGjREvU9dB"
)

// DefaultBalance returns the default genesis account balance,
// 10,000 NEAR in yoctoNEAR (10,000 x 10^24).
func DefaultBalance() *uint256.Int {
	balance, err := uint256.FromDecimal("10000000000000000000000000000")
	if err != nil {
		panic(err) // constant, cannot fail
	}
	return balance
}

// GenesisAccount is one funded account injected into genesis. Immutable once
// handed to ApplyGenesis; persisted into genesis.json and an individual key
// file.
type GenesisAccount struct {
	AccountID  string       `json:"account_id"`
	PublicKey  string       `json:"public_key"`
	PrivateKey string       `json:"private_key"`
	Balance    *uint256.Int `json:"balance"`
}

// DefaultGenesisAccount returns the primary "sandbox" account.
func DefaultGenesisAccount() GenesisAccount {
	return GenesisAccount{
		AccountID:  DefaultAccountID,
		PublicKey:  DefaultPublicKey,
		PrivateKey: DefaultPrivateKey,
		Balance:    DefaultBalance(),
	}
}

// GenerateAccount returns a genesis account with a unique generated id, a
// fresh ed25519 key pair, and the default balance.
func GenerateAccount() (GenesisAccount, error) {
	privateKey, publicKey, err := GenerateKeyPair()
	if err != nil {
		return GenesisAccount{}, err
	}
	return GenesisAccount{
		AccountID:  generateAccountID(),
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		Balance:    DefaultBalance(),
	}, nil
}

// GenerateKeyPair returns a fresh ed25519 key pair in the NEAR string
// format: "ed25519:" followed by base58 of the 64-byte keypair for the
// private key, and of the 32-byte public key for the public key.
func GenerateKeyPair() (privateKey, publicKey string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate key pair: %w", err)
	}
	return "ed25519:" + base58.Encode(priv), "ed25519:" + base58.Encode(pub), nil
}

func generateAccountID() string {
	return fmt.Sprintf("sandbox-genesis-dev-acc-%s-%d",
		time.Now().UTC().Format("20060102150405"),
		mrand.Int64N(90000000000000)+10000000000000)
}

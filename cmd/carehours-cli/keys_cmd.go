package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/cmd/internal/passphrase"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/rpc"
)

var newPassphraseSource = func() interface{ Get() (string, error) } {
	return passphrase.NewSource(envPassphrase)
}

func keysUsage() string {
	return strings.TrimSpace(`Usage:
  carehours-cli keygen --out <keystore.json>
  carehours-cli token --keystore <keystore.json> [--ttl 24h]
`)
}

func runKeygen(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("keygen", stderr, keysUsage)
	var out string
	fs.StringVar(&out, "out", "", "keystore file to create")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if strings.TrimSpace(out) == "" {
		return printError(stderr, "--out is required")
	}
	if _, err := os.Stat(out); err == nil {
		return printError(stderr, fmt.Sprintf("%s already exists", out))
	}
	pass, err := newPassphraseSource().Get()
	if err != nil {
		return printError(stderr, err.Error())
	}
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return printError(stderr, fmt.Sprintf("generate key: %v", err))
	}
	if err := crypto.SaveToKeystore(out, key, pass); err != nil {
		return printError(stderr, fmt.Sprintf("write keystore: %v", err))
	}
	fmt.Fprintf(stdout, "Address: %s\nKeystore: %s\n", key.PubKey().Address().String(), out)
	return 0
}

// runToken proves control of the keystore by decrypting it, then signs a
// bearer token naming its account.
func runToken(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("token", stderr, keysUsage)
	var (
		keystorePath string
		ttl          time.Duration
	)
	fs.StringVar(&keystorePath, "keystore", "", "keystore file of the caller")
	fs.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if strings.TrimSpace(keystorePath) == "" {
		return printError(stderr, "--keystore is required")
	}
	secret := strings.TrimSpace(os.Getenv(envJWTSecret))
	if secret == "" {
		return printError(stderr, envJWTSecret+" must be set")
	}
	pass, err := newPassphraseSource().Get()
	if err != nil {
		return printError(stderr, err.Error())
	}
	key, err := crypto.LoadFromKeystore(keystorePath, pass)
	if err != nil {
		return printError(stderr, fmt.Sprintf("unlock keystore: %v", err))
	}
	var account [20]byte
	copy(account[:], key.PubKey().Address().Bytes())
	token, err := rpc.IssueToken([]byte(secret), account, ttl)
	if err != nil {
		return printError(stderr, err.Error())
	}
	fmt.Fprintln(stdout, token)
	return 0
}

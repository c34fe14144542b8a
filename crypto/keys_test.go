package crypto

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatAndParseAccount(t *testing.T) {
	var raw [20]byte
	copy(raw[:], bytes.Repeat([]byte{0x42}, 20))

	encoded := FormatAccount(raw)
	if !strings.HasPrefix(encoded, "care1") {
		t.Fatalf("expected care1 prefix, got %s", encoded)
	}
	decoded, err := ParseAccount("  " + encoded + " ")
	if err != nil {
		t.Fatalf("parse account: %v", err)
	}
	if decoded != raw {
		t.Fatalf("round trip mismatch: %x", decoded)
	}
}

func TestParseAccountRejectsForeignPrefix(t *testing.T) {
	foreign := NewAddress(AddressPrefix("cosmos"), bytes.Repeat([]byte{0x01}, 20)).String()
	if _, err := ParseAccount(foreign); err == nil {
		t.Fatalf("expected prefix mismatch error")
	}
	if _, err := ParseAccount(""); err == nil {
		t.Fatalf("expected empty address error")
	}
}

func TestDeriveModuleAccountIsStableAndDistinct(t *testing.T) {
	booking := DeriveModuleAccount("booking")
	if booking != DeriveModuleAccount(" Booking ") {
		t.Fatalf("derivation must normalise module names")
	}
	if booking == DeriveModuleAccount("verification") {
		t.Fatalf("module accounts must differ")
	}
	if booking == ([20]byte{}) {
		t.Fatalf("module account must not be zero")
	}
}

func TestKeystoreRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "keys", "operator.keystore")
	if err := SaveToKeystore(path, key, "secret"); err != nil {
		t.Fatalf("save keystore: %v", err)
	}
	loaded, err := LoadFromKeystore(path, "secret")
	if err != nil {
		t.Fatalf("load keystore: %v", err)
	}
	if !bytes.Equal(loaded.Bytes(), key.Bytes()) {
		t.Fatalf("loaded key mismatch")
	}
	account, err := KeystoreAccount(path)
	if err != nil {
		t.Fatalf("keystore account: %v", err)
	}
	if !bytes.Equal(account[:], key.PubKey().Address().Bytes()) {
		t.Fatalf("keystore account mismatch")
	}
	if _, err := LoadFromKeystore(path, "wrong"); err == nil {
		t.Fatalf("expected wrong passphrase to fail")
	}
}

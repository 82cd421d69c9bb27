package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := hex.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
	svc, err := New(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected service to be configured")
	}

	encrypted, err := svc.EncryptString("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if bytes.Contains(encrypted, []byte("JBSWY3DP")) {
		t.Fatal("ciphertext contains plaintext")
	}

	decrypted, err := svc.DecryptString(encrypted)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if decrypted != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("unexpected plaintext: %q", decrypted)
	}
}

func TestPassthroughWithoutKey(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Configured() {
		t.Fatal("did not expect service to be configured")
	}
	out, err := svc.Encrypt([]byte("plain"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "plain" {
		t.Fatalf("expected passthrough, got %q", out)
	}
}

func TestRejectsWrongKeyLength(t *testing.T) {
	if _, err := New(hex.EncodeToString([]byte("short"))); err == nil {
		t.Fatal("expected error for short key")
	}
}

package crypto

import (
	"bytes"
	"strings"
	"testing"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestRoundTrip(t *testing.T) {
	svc, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("service not configured with valid key")
	}

	enc, err := svc.EncryptString("NL91ABNA0417164300")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(enc, []byte("ABNA")) {
		t.Error("ciphertext contains plaintext")
	}

	plain, err := svc.DecryptString(enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "NL91ABNA0417164300" {
		t.Errorf("round trip = %q", plain)
	}
}

func TestTamperDetected(t *testing.T) {
	svc, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	enc, err := svc.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	enc[len(enc)-1] ^= 0x01
	if _, err := svc.Decrypt(enc); err == nil {
		t.Fatal("tampered ciphertext decrypted")
	}
}

func TestEmptyKeyPassesThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if svc.Configured() {
		t.Fatal("empty key reported as configured")
	}
	enc, err := svc.EncryptString("plain")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if string(enc) != "plain" {
		t.Errorf("passthrough mangled value: %q", enc)
	}
}

func TestRejectsShortKey(t *testing.T) {
	if _, err := New("too-short"); err == nil {
		t.Fatal("want error for short key")
	} else if !strings.Contains(err.Error(), "32 bytes") {
		t.Errorf("err = %v", err)
	}
}

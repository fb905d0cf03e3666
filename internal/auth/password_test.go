package auth

import "testing"

func TestBcryptHasher_roundTrip(t *testing.T) {
	h := NewBcryptHasher(4) // minimum cost keeps the test fast

	digest, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if digest == "pw1" {
		t.Fatal("digest must not equal the plaintext")
	}
	if !h.Verify("pw1", digest) {
		t.Error("correct password should verify")
	}
	if h.Verify("pw2", digest) {
		t.Error("wrong password should not verify")
	}
}

func TestBcryptHasher_distinctDigests(t *testing.T) {
	h := NewBcryptHasher(4)
	d1, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	d2, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if d1 == d2 {
		t.Error("bcrypt digests should be salted and differ per call")
	}
}

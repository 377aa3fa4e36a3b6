package utils

import "testing"

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := NewBcryptHasher()

	hashed, err := hasher.Hash("welcome@123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hashed == "welcome@123" {
		t.Fatal("Password must not be stored verbatim")
	}

	if err := hasher.Compare(hashed, "welcome@123"); err != nil {
		t.Errorf("Compare with correct password failed: %v", err)
	}
	if err := hasher.Compare(hashed, "wrong"); err == nil {
		t.Error("Compare with wrong password must fail")
	}
}

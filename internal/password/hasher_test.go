package password

import "testing"

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(4) // minimum cost, tests only

	hash, err := hasher.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash equals the plain password")
	}

	if err := hasher.Compare(hash, "s3cret"); err != nil {
		t.Errorf("Compare with correct password: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Error("Compare accepted a wrong password")
	}
}

func TestBcryptHasherRejectsEmptyPassword(t *testing.T) {
	hasher := NewBcryptHasher(4)

	if _, err := hasher.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

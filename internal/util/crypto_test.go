package util

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Sup3rSecret" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("Sup3rSecret", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
	if CheckPassword("", hash) {
		t.Error("empty password accepted")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("", 4); err == nil {
		t.Error("empty password hashed without error")
	}
}

func TestRandomString(t *testing.T) {
	a, err := RandomString(64)
	if err != nil {
		t.Fatalf("RandomString: %v", err)
	}
	b, err := RandomString(64)
	if err != nil {
		t.Fatalf("RandomString: %v", err)
	}
	if len(a) != 64 || len(b) != 64 {
		t.Errorf("lengths = %d, %d, want 64", len(a), len(b))
	}
	if a == b {
		t.Error("two random strings are identical")
	}

	if _, err := RandomString(0); err == nil {
		t.Error("zero length accepted")
	}
}

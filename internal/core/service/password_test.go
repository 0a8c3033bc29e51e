package service

import "testing"

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash equals plaintext")
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Fatalf("verify rejected the original password")
	}
	if VerifyPassword("correct horse battery stapl", hash) {
		t.Fatalf("verify accepted a different password")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("pass12345")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	h2, err := HashPassword("pass12345")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same input are identical; salting is broken")
	}
	if !VerifyPassword("pass12345", h1) || !VerifyPassword("pass12345", h2) {
		t.Fatalf("verify must tolerate differing encodings of the same password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	// A corrupt stored hash is a data-integrity condition: verify returns
	// false, it never panics or errors out to the caller.
	if VerifyPassword("whatever", "not-a-bcrypt-hash") {
		t.Fatalf("verify accepted a malformed hash")
	}
	if VerifyPassword("whatever", "") {
		t.Fatalf("verify accepted an empty hash")
	}
}

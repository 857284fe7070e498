package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	// salted: same input, different hashes, both verify
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for repeated input")
	}
	if !CheckPassword("s3cret", h1) || !CheckPassword("s3cret", h2) {
		t.Fatalf("expected both hashes to verify the original password")
	}
}

func TestCheckPassword_Mismatch(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if CheckPassword("battery staple", h) {
		t.Fatalf("expected mismatching password to fail")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	if CheckPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash must read as false, not panic or pass")
	}
}

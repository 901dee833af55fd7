package hash

import (
	"strings"
	"testing"
)

func TestArgon2idHashVerify(t *testing.T) {
	h := NewArgon2id("pepper")

	digest, err := h.Hash("482910")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if !strings.HasPrefix(string(digest), "$argon2id$") {
		t.Fatalf("digest is not self-describing: %q", digest)
	}

	if !h.Verify(string(digest), "482910") {
		t.Fatalf("expected digest to verify against the original plaintext")
	}
	if h.Verify(string(digest), "482911") {
		t.Fatalf("expected verify to fail for a different plaintext")
	}
}

func TestArgon2idDistinctSalts(t *testing.T) {
	h := NewArgon2id("pepper")

	first, err := h.Hash("000123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := h.Hash("000123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if string(first) == string(second) {
		t.Fatalf("two digests of the same plaintext must differ by salt")
	}
	if !h.Verify(string(first), "000123") || !h.Verify(string(second), "000123") {
		t.Fatalf("both digests must verify against the plaintext")
	}
}

func TestArgon2idPepperBinds(t *testing.T) {
	digest, err := NewArgon2id("pepper-a").Hash("654321")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if NewArgon2id("pepper-b").Verify(string(digest), "654321") {
		t.Fatalf("a digest must not verify under a different pepper")
	}
}

func TestArgon2idVerifyMalformed(t *testing.T) {
	h := NewArgon2id("pepper")

	cases := []string{
		"",
		"plain-garbage",
		"$argon2i$v=19$m=32768,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=32768,t=3,p=2$not-base64!!$aGFzaA",
		"$argon2id$v=19$m=32768$c2FsdA$aGFzaA",
	}

	for _, hashed := range cases {
		if h.Verify(hashed, "123456") {
			t.Fatalf("malformed digest %q must not verify", hashed)
		}
	}
}

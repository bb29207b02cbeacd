package password

import (
	"errors"
	"testing"
)

func testConfig() Config {
	return Config{
		Memory:      minMemoryKB,
		Time:        1,
		Parallelism: 1,
		KeyLength:   32,
		SaltLength:  16,
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"Abcdef1!", true},
		{"Pässwörd9?", true},
		{"Abcde1!", false},
		{"abcdefg1!", false},
		{"ABCDEFG1!", false},
		{"Abcdefgh!", false},
		{"Abcdefgh1", false},
		{"", false},
	}

	for _, tc := range tests {
		_, err := New(tc.raw)
		if tc.ok && err != nil {
			t.Fatalf("New(%q) unexpected error: %v", tc.raw, err)
		}
		if !tc.ok && !errors.Is(err, ErrNotAPassword) {
			t.Fatalf("New(%q) expected ErrNotAPassword, got %v", tc.raw, err)
		}
	}
}

func TestPasswordStringIsRedacted(t *testing.T) {
	if MustNew("Abcdef1!").String() == "Abcdef1!" {
		t.Fatal("password leaked through String")
	}
}

func TestSalt(t *testing.T) {
	s, err := NewSalt(24)
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	if len(s) != 24 {
		t.Fatalf("unexpected salt length %d", len(s))
	}
	if _, err := ParseSalt(string(s)); err != nil {
		t.Fatalf("generated salt rejected: %v", err)
	}

	for _, bad := range []string{"", "abc def", "abc-123", "sält"} {
		if _, err := ParseSalt(bad); !errors.Is(err, ErrNotASalt) {
			t.Fatalf("ParseSalt(%q) expected ErrNotASalt, got %v", bad, err)
		}
	}
	if _, err := NewSalt(0); !errors.Is(err, ErrNotASalt) {
		t.Fatalf("expected ErrNotASalt, got %v", err)
	}
}

func TestHasherDeterministic(t *testing.T) {
	h, err := NewHasher(testConfig())
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	p := MustNew("Abcdef1!")

	a, err := h.WithSalt(p, "saltsaltsalt")
	if err != nil {
		t.Fatalf("WithSalt: %v", err)
	}
	b, err := h.WithSalt(p, "saltsaltsalt")
	if err != nil {
		t.Fatalf("WithSalt: %v", err)
	}
	if a != b {
		t.Fatal("expected identical digests for identical input")
	}

	c, err := h.WithSalt(p, "othersalt")
	if err != nil {
		t.Fatalf("WithSalt: %v", err)
	}
	if c.Hash == a.Hash {
		t.Fatal("expected different digest for different salt")
	}
}

func TestHasherMatches(t *testing.T) {
	h, err := NewHasher(testConfig())
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	stored, err := h.WithNewSalt(MustNew("Abcdef1!"))
	if err != nil {
		t.Fatalf("WithNewSalt: %v", err)
	}

	ok, err := h.Matches(stored, MustNew("Abcdef1!"))
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = h.Matches(stored, MustNew("Abcdef2!"))
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}

	if _, err := h.Matches(Hash{Hash: "%%%", Salt: "abc"}, MustNew("Abcdef1!")); !errors.Is(err, ErrHash) {
		t.Fatalf("expected ErrHash for corrupt digest, got %v", err)
	}
}

func TestHasherRejectsWeakConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Memory = 1024
	if _, err := NewHasher(cfg); err == nil {
		t.Fatal("expected weak memory to be rejected")
	}
	cfg = testConfig()
	cfg.KeyLength = 8
	if _, err := NewHasher(cfg); err == nil {
		t.Fatal("expected short key to be rejected")
	}
}

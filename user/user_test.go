package user

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goIdentity/password"
)

func TestParseEmail(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+tag@mail.example.org", "x_y-z@d.io"}
	for _, s := range valid {
		if _, err := ParseEmail(s); err != nil {
			t.Fatalf("ParseEmail(%q): %v", s, err)
		}
	}
	invalid := []string{"", "alice", "alice@", "@example.com", "alice@example", "al ice@example.com", "alice@example.c"}
	for _, s := range invalid {
		if _, err := ParseEmail(s); !errors.Is(err, ErrNotAnEmail) {
			t.Fatalf("ParseEmail(%q) expected ErrNotAnEmail, got %v", s, err)
		}
	}
}

func TestEmailActualAndUsername(t *testing.T) {
	tests := []struct {
		in       Email
		actual   Email
		username string
	}{
		{"alice@example.com", "alice@example.com", "alice"},
		{"alice+news@example.com", "alice@example.com", "alice"},
		{"bob.smith+a+b@example.com", "bob.smith@example.com", "bob.smith"},
	}
	for _, tc := range tests {
		if got := tc.in.Actual(); got != tc.actual {
			t.Fatalf("%s.Actual() = %s, want %s", tc.in, got, tc.actual)
		}
		if got := tc.in.Username(); got != tc.username {
			t.Fatalf("%s.Username() = %s, want %s", tc.in, got, tc.username)
		}
	}
}

func TestParseIdentity(t *testing.T) {
	if id := ParseIdentity("alice@example.com"); !id.IsEmail() || id.Email != "alice@example.com" {
		t.Fatalf("expected email identity, got %+v", id)
	}
	if id := ParseIdentity("alice"); id.IsEmail() || id.Name != "alice" {
		t.Fatalf("expected name identity, got %+v", id)
	}
}

func TestCredentialsPrelude(t *testing.T) {
	p := CredentialsPrelude{Email: "alice@example.com"}
	if _, err := p.Credentials(); !errors.Is(err, ErrUncomplete) {
		t.Fatalf("expected ErrUncomplete, got %v", err)
	}

	h := password.Hash{Hash: "digest", Salt: "salt"}
	q := CredentialsPrelude{Email: "alice@example.com", Password: &h}
	if p.Hash() == q.Hash() {
		t.Fatal("preludes with different passwords must hash differently")
	}
	if q.Hash() != (CredentialsPrelude{Email: "alice@example.com", Password: &h}).Hash() {
		t.Fatal("prelude hash must be deterministic")
	}

	creds, err := q.Credentials()
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if creds.Password != h {
		t.Fatalf("unexpected password %+v", creds.Password)
	}
}

func TestEventPayloadChecksum(t *testing.T) {
	u := New(Credentials{Email: "alice+x@example.com"})
	ev := NewEvent(u, EventCreated)
	if ev.UserName != "alice" || ev.Kind != EventCreated {
		t.Fatalf("unexpected event %+v", ev)
	}

	raw, sum, err := ev.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	_, sum2, _ := ev.Payload()
	if len(raw) == 0 || sum != sum2 || len(sum) != 64 {
		t.Fatalf("unexpected payload/checksum %q %q", raw, sum)
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	u := New(Credentials{Email: "alice+tag@example.com"})

	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, New(Credentials{Email: "alice+tag@example.com"})); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	for _, email := range []Email{"alice+tag@example.com", "alice@example.com"} {
		got, err := repo.FindByEmail(ctx, email)
		if err != nil || got.ID != u.ID {
			t.Fatalf("FindByEmail(%s) = %v, %v", email, got, err)
		}
	}
	if _, err := repo.FindByName(ctx, "alice"); err != nil {
		t.Fatalf("FindByName: %v", err)
	}

	u.Preferences.MultiFactor = "email"
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := repo.Find(ctx, u.ID)
	if got.Preferences.MultiFactor != "email" {
		t.Fatalf("preference not saved: %+v", got.Preferences)
	}

	if err := repo.Delete(ctx, u); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Find(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type fakeSalts struct {
	salts     map[ID]password.Salt
	failWrite error
}

func (f *fakeSalts) ReplaceSalt(_ context.Context, u *User) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	f.salts[u.ID] = u.Credentials.Password.Salt
	return nil
}

func (f *fakeSalts) DeleteByOwner(_ context.Context, owner ID) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	delete(f.salts, owner)
	return nil
}

func TestMemoryRepositoryKeepsSalts(t *testing.T) {
	ctx := context.Background()
	salts := &fakeSalts{salts: map[ID]password.Salt{}}
	repo := NewMemoryRepository().WithSalts(salts)
	u := New(Credentials{Email: "alice@example.com", Password: password.Hash{Hash: "h", Salt: "one"}})

	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if salts.salts[u.ID] != "one" {
		t.Fatal("Create must store the salt")
	}

	u.Credentials.Password = password.Hash{Hash: "h2", Salt: "two"}
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if salts.salts[u.ID] != "two" {
		t.Fatal("Save must replace the salt")
	}

	boom := errors.New("boom")
	salts.failWrite = boom
	u.Credentials.Password = password.Hash{Hash: "h3", Salt: "three"}
	if err := repo.Save(ctx, u); !errors.Is(err, boom) {
		t.Fatalf("expected salt failure, got %v", err)
	}
	got, _ := repo.Find(ctx, u.ID)
	if got.Credentials.Password.Salt != "two" {
		t.Fatal("a failed salt write must leave the user unchanged")
	}
	if err := repo.Delete(ctx, u); !errors.Is(err, boom) {
		t.Fatalf("expected delete failure, got %v", err)
	}
	if _, err := repo.Find(ctx, u.ID); err != nil {
		t.Fatalf("user must be restored after a failed delete: %v", err)
	}
	if err := repo.Create(ctx, New(Credentials{Email: "bob@example.com"})); !errors.Is(err, boom) {
		t.Fatalf("expected create failure, got %v", err)
	}
	if repo.Len() != 1 {
		t.Fatal("a failed create must not store the user")
	}

	salts.failWrite = nil
	if err := repo.Delete(ctx, u); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := salts.salts[u.ID]; ok {
		t.Fatal("Delete must remove the salt")
	}
}

package openid_test

import (
	"context"
	"errors"
	"testing"

	"github.com/willemschots/openidstore/internal/errorz/testerr"
	"github.com/willemschots/openidstore/internal/openid"
)

func Test_ProfileResolver_Email(t *testing.T) {
	t.Run("ok, stored address", func(t *testing.T) {
		st := newStoreTest(t)
		st.insertThreepid("@alice:example.org", openid.MediumEmail, "alice@example.org")

		got, ok, err := st.res.Email(context.Background(), "@alice:example.org")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !ok || got != "alice@example.org" {
			t.Errorf("got (%q, %v) want (%q, true)", got, ok, "alice@example.org")
		}
	})

	t.Run("ok, no email record", func(t *testing.T) {
		st := newStoreTest(t)
		st.insertThreepid("@alice:example.org", openid.MediumEmail, "alice@example.org")

		got, ok, err := st.res.Email(context.Background(), "@bob:example.org")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if ok || got != "" {
			t.Errorf("got (%q, %v) want none", got, ok)
		}
	})

	t.Run("ok, other media are ignored", func(t *testing.T) {
		st := newStoreTest(t)
		st.insertThreepid("@alice:example.org", "msisdn", "447700900000")

		_, ok, err := st.res.Email(context.Background(), "@alice:example.org")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if ok {
			t.Errorf("expected no email")
		}
	})

	t.Run("ok, one of several email addresses", func(t *testing.T) {
		st := newStoreTest(t)
		st.insertThreepid("@alice:example.org", openid.MediumEmail, "alice@example.org")
		st.insertThreepid("@alice:example.org", openid.MediumEmail, "alice@example.com")

		got, ok, err := st.res.Email(context.Background(), "@alice:example.org")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !ok {
			t.Fatalf("expected an email address")
		}

		if got != "alice@example.org" && got != "alice@example.com" {
			t.Errorf("got %q, want one of the stored addresses", got)
		}
	})

	for _, dep := range testerr.NewFailingDeps(testerr.Err, 3) {
		t.Run("fail, store fails", func(t *testing.T) {
			st := newStoreTest(t)
			st.insertThreepid("@alice:example.org", openid.MediumEmail, "alice@example.org")
			st.store.dep = &dep

			got, ok, err := st.res.Email(context.Background(), "@alice:example.org")
			if !errors.Is(err, testerr.Err) {
				t.Fatalf("expected error %v, got %v via errors.Is()", testerr.Err, err)
			}

			if ok || got != "" {
				t.Errorf("expected no result on error, got (%q, %v)", got, ok)
			}
		})
	}
}

func Test_ProfileResolver_DisplayName(t *testing.T) {
	t.Run("ok, stored display name", func(t *testing.T) {
		st := newStoreTest(t)
		st.insertProfile("alice", ptr("Alice"))

		got, ok, err := st.res.DisplayName(context.Background(), "@alice:example.org")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !ok || got != "Alice" {
			t.Errorf("got (%q, %v) want (%q, true)", got, ok, "Alice")
		}
	})

	t.Run("ok, keyed by localpart regardless of domain", func(t *testing.T) {
		st := newStoreTest(t)
		st.insertProfile("alice", ptr("Alice"))

		got, ok, err := st.res.DisplayName(context.Background(), "@alice:other.example.org")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !ok || got != "Alice" {
			t.Errorf("got (%q, %v) want (%q, true)", got, ok, "Alice")
		}
	})

	t.Run("ok, no profile", func(t *testing.T) {
		st := newStoreTest(t)
		st.insertProfile("alice", ptr("Alice"))

		_, ok, err := st.res.DisplayName(context.Background(), "@bob:example.org")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if ok {
			t.Errorf("expected no display name")
		}
	})

	t.Run("ok, profile without display name", func(t *testing.T) {
		st := newStoreTest(t)
		st.insertProfile("alice", nil)

		_, ok, err := st.res.DisplayName(context.Background(), "@alice:example.org")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if ok {
			t.Errorf("expected no display name")
		}
	})

	invalid := []string{"not-a-user-id", "bob", "@alice", "", "alice:example.org"}
	for _, raw := range invalid {
		t.Run("ok, invalid user id "+raw, func(t *testing.T) {
			st := newStoreTest(t)
			// Stored data that would match a naive lookup.
			st.insertProfile(raw, ptr("Should not be returned"))
			st.insertProfile("alice", ptr("Alice"))
			// Any storage access fails the test.
			st.store.dep = &testerr.FailingDep{CallIndex: -1, Err: testerr.Err, FailAtIndex: 0}

			got, ok, err := st.res.DisplayName(context.Background(), raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if ok || got != "" {
				t.Errorf("got (%q, %v) want none", got, ok)
			}

			if st.store.begins != 0 {
				t.Errorf("expected no storage access, got %d transactions", st.store.begins)
			}
		})
	}

	for _, dep := range testerr.NewFailingDeps(testerr.Err, 3) {
		t.Run("fail, store fails", func(t *testing.T) {
			st := newStoreTest(t)
			st.insertProfile("alice", ptr("Alice"))
			st.store.dep = &dep

			got, ok, err := st.res.DisplayName(context.Background(), "@alice:example.org")
			if !errors.Is(err, testerr.Err) {
				t.Fatalf("expected error %v, got %v via errors.Is()", testerr.Err, err)
			}

			if ok || got != "" {
				t.Errorf("expected no result on error, got (%q, %v)", got, ok)
			}
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

package id

import "testing"

func TestAckTokenUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 10000; i++ {
		tok := AckToken()
		if tok == "" {
			t.Fatalf("empty token")
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = struct{}{}
	}
}

func TestMessageID(t *testing.T) {
	if got := Message(42); got != "42" {
		t.Fatalf("got %q", got)
	}
}

package bookverse

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestClean(t *testing.T) {
	tests := map[string]string{
		"Plain":                    "Plain",
		"<script>x()</script>Dune": "Dune",
		"Tom &amp; Jerry":          "Tom & Jerry",
		"  <em>spaced</em>  ":      "spaced",
	}
	for in, want := range tests {
		if got := Clean(in); got != want {
			t.Errorf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Der Prozeß", "PROZEß") {
		t.Fatal("fold match failed")
	}
	if !ContainsFold("Foundation", "FOUND") {
		t.Fatal("ascii fold failed")
	}
	if ContainsFold("Dune", "asi") {
		t.Fatal("unexpected match")
	}
}

func TestTokenExpiry(t *testing.T) {
	want := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": want.Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, ok, err := TokenExpiry(signed)
	if err != nil || !ok || !got.Equal(want) {
		t.Fatalf("TokenExpiry = %v %v %v, want %v", got, ok, err, want)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("k"))
	if _, ok, err := TokenExpiry(noExp); ok || err != nil {
		t.Fatalf("no exp: ok=%v err=%v", ok, err)
	}

	if _, _, err := TokenExpiry("opaque-session-id"); err != ErrOpaqueToken {
		t.Fatalf("opaque: %v", err)
	}
}

package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	userID := uuid.New()

	token, exp, err := m.Generate(userID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry %v is not in the future", exp)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != userID || claims.Subject != userID.String() {
		t.Errorf("claims = %+v, want user %s", claims, userID)
	}
	if claims.ID == "" {
		t.Error("token id is empty")
	}
}

func TestTokensAreUnique(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	userID := uuid.New()

	a, _, _ := m.Generate(userID)
	b, _, _ := m.Generate(userID)
	if a == b {
		t.Fatal("two tokens for one user must differ")
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	token, _, err := NewJWTManager("one", time.Hour).Generate(uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWTManager("two", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, _, err := m.Generate(uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	userID := uuid.New()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWTManager("secret", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, err := BearerToken(r)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("header %q: got (%q, %v)", tc.header, got, err)
		}
	}
}

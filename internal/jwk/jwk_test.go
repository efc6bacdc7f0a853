package jwk_test

import (
	"errors"
	"strings"
	"testing"

	"sealedchat/internal/crypto"
	"sealedchat/internal/jwk"
)

func TestAgreement_RoundTrip(t *testing.T) {
	priv, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}

	rec, err := jwk.ExportAgreementPrivate(priv)
	if err != nil {
		t.Fatalf("ExportAgreementPrivate: %v", err)
	}
	if rec.Kind() != jwk.KindAgreementPrivate {
		t.Fatalf("kind = %s, want agreement-private", rec.Kind())
	}

	got, err := jwk.ImportAgreementPrivate(rec)
	if err != nil {
		t.Fatalf("ImportAgreementPrivate: %v", err)
	}
	if !priv.Equal(got) {
		t.Fatal("private key mismatch after round trip")
	}

	pub, err := jwk.ImportAgreementPublic(rec.Public())
	if err != nil {
		t.Fatalf("ImportAgreementPublic: %v", err)
	}
	if !priv.PublicKey().Equal(pub) {
		t.Fatal("public key mismatch after round trip")
	}
}

func TestSigning_RoundTrip(t *testing.T) {
	priv, err := crypto.GenerateSigningKeypair()
	if err != nil {
		t.Fatalf("GenerateSigningKeypair: %v", err)
	}

	rec, err := jwk.ExportSigningPrivate(priv)
	if err != nil {
		t.Fatalf("ExportSigningPrivate: %v", err)
	}
	if rec.Kind() != jwk.KindSigningPrivate {
		t.Fatalf("kind = %s, want signing-private", rec.Kind())
	}

	got, err := jwk.ImportSigningPrivate(rec)
	if err != nil {
		t.Fatalf("ImportSigningPrivate: %v", err)
	}
	if !priv.Equal(got) {
		t.Fatal("private key mismatch after round trip")
	}

	pub, err := jwk.ImportSigningPublic(rec.Public())
	if err != nil {
		t.Fatalf("ImportSigningPublic: %v", err)
	}
	if !priv.PublicKey.Equal(pub) {
		t.Fatal("public key mismatch after round trip")
	}
}

func TestPublic_StripsPrivateMaterial(t *testing.T) {
	priv, err := crypto.GenerateSigningKeypair()
	if err != nil {
		t.Fatalf("GenerateSigningKeypair: %v", err)
	}
	rec, err := jwk.ExportSigningPrivate(priv)
	if err != nil {
		t.Fatalf("ExportSigningPrivate: %v", err)
	}

	pub := rec.Public()
	if pub.D != "" {
		t.Fatal("public record still carries the private scalar")
	}
	if pub.Kind() != jwk.KindSigningPublic {
		t.Fatalf("kind = %s, want signing-public", pub.Kind())
	}
}

func TestValidate_WrongKind(t *testing.T) {
	priv, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	rec, err := jwk.ExportAgreementPublic(priv.PublicKey())
	if err != nil {
		t.Fatalf("ExportAgreementPublic: %v", err)
	}

	// An agreement key must never be accepted where a signing key is
	// expected, even though both live on P-256.
	if err := rec.Validate(jwk.KindSigningPublic); !errors.Is(err, jwk.ErrWrongKind) {
		t.Fatalf("want ErrWrongKind, got %v", err)
	}
	if _, err := jwk.ImportSigningPublic(rec); !errors.Is(err, jwk.ErrWrongKind) {
		t.Fatalf("want ErrWrongKind, got %v", err)
	}
}

func TestImport_Malformed(t *testing.T) {
	priv, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	good, err := jwk.ExportAgreementPublic(priv.PublicKey())
	if err != nil {
		t.Fatalf("ExportAgreementPublic: %v", err)
	}

	cases := map[string]jwk.Record{
		"missing coordinates": {Kty: "EC", Crv: "P-256", KeyOps: []string{"deriveBits"}},
		"wrong curve":         {Kty: "EC", Crv: "P-384", X: good.X, Y: good.Y, KeyOps: good.KeyOps},
		"bad base64":          {Kty: "EC", Crv: "P-256", X: "!!!", Y: good.Y, KeyOps: good.KeyOps},
		"truncated coord":     {Kty: "EC", Crv: "P-256", X: good.X[:10], Y: good.Y, KeyOps: good.KeyOps},
		"no key ops":          {Kty: "EC", Crv: "P-256", X: good.X, Y: good.Y},
	}
	for name, rec := range cases {
		if _, err := jwk.ImportAgreementPublic(rec); !errors.Is(err, jwk.ErrMalformed) && !errors.Is(err, jwk.ErrWrongKind) {
			t.Errorf("%s: want malformed or wrong-kind error, got %v", name, err)
		}
	}
}

func TestImport_OffCurvePoint(t *testing.T) {
	priv, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	rec, err := jwk.ExportAgreementPublic(priv.PublicKey())
	if err != nil {
		t.Fatalf("ExportAgreementPublic: %v", err)
	}

	// Corrupt one coordinate while keeping valid base64url of the right
	// length; the result is overwhelmingly unlikely to stay on the curve.
	corrupted := []byte(rec.X)
	if corrupted[0] == 'A' {
		corrupted[0] = 'B'
	} else {
		corrupted[0] = 'A'
	}
	rec.X = string(corrupted)

	if _, err := jwk.ImportAgreementPublic(rec); err == nil {
		t.Fatal("off-curve point accepted")
	} else if !strings.Contains(err.Error(), "malformed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

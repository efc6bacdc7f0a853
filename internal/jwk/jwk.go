package jwk

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

const (
	keyTypeEC = "EC"
	curveP256 = "P-256"

	coordBytes = 32 // P-256 field element size
)

// Kind identifies which variant of the key-record union a Record holds.
// Records are validated against an expected Kind on import so a key
// generated for agreement can never be reinterpreted as a signing key.
type Kind int

const (
	KindUnknown Kind = iota
	KindAgreementPublic
	KindAgreementPrivate
	KindSigningPublic
	KindSigningPrivate
)

func (k Kind) String() string {
	switch k {
	case KindAgreementPublic:
		return "agreement-public"
	case KindAgreementPrivate:
		return "agreement-private"
	case KindSigningPublic:
		return "signing-public"
	case KindSigningPrivate:
		return "signing-private"
	default:
		return "unknown"
	}
}

var (
	// ErrMalformed is returned when a record is missing required fields or
	// carries coordinates that do not decode to a valid P-256 key.
	ErrMalformed = errors.New("jwk: malformed key record")

	// ErrWrongKind is returned when a record's declared usage does not match
	// the variant the caller expects.
	ErrWrongKind = errors.New("jwk: key record has wrong kind")
)

// Record is a JSON key-interchange record (JWK) restricted to EC P-256.
// It is the only key format that crosses the identity/handshake boundary.
type Record struct {
	Kty    string   `json:"kty"`
	Crv    string   `json:"crv"`
	X      string   `json:"x"`
	Y      string   `json:"y"`
	D      string   `json:"d,omitempty"`
	KeyOps []string `json:"key_ops,omitempty"`
}

// Kind reports which union variant the record encodes, based on the
// presence of private material and the declared key operations.
func (r Record) Kind() Kind {
	if r.Kty != keyTypeEC || r.Crv != curveP256 || r.X == "" || r.Y == "" {
		return KindUnknown
	}
	private := r.D != ""
	switch {
	case hasOp(r.KeyOps, "sign") || hasOp(r.KeyOps, "verify"):
		if private {
			return KindSigningPrivate
		}
		return KindSigningPublic
	case hasOp(r.KeyOps, "deriveBits") || hasOp(r.KeyOps, "deriveKey"):
		if private {
			return KindAgreementPrivate
		}
		return KindAgreementPublic
	default:
		return KindUnknown
	}
}

// Validate checks the record against the expected variant.
func (r Record) Validate(want Kind) error {
	got := r.Kind()
	if got == KindUnknown {
		return ErrMalformed
	}
	if got != want {
		return fmt.Errorf("%w: got %s, want %s", ErrWrongKind, got, want)
	}
	return nil
}

// Public strips private material, turning a private record into its
// public counterpart. Public records pass through unchanged.
func (r Record) Public() Record {
	r.D = ""
	ops := make([]string, 0, len(r.KeyOps))
	for _, op := range r.KeyOps {
		switch op {
		case "sign":
			ops = append(ops, "verify")
		default:
			ops = append(ops, op)
		}
	}
	r.KeyOps = ops
	return r
}

// ExportAgreementPublic encodes a P-256 ECDH public key.
func ExportAgreementPublic(pub *ecdh.PublicKey) (Record, error) {
	x, y, err := splitPoint(pub.Bytes())
	if err != nil {
		return Record{}, err
	}
	return Record{
		Kty:    keyTypeEC,
		Crv:    curveP256,
		X:      encode(x),
		Y:      encode(y),
		KeyOps: []string{"deriveBits", "deriveKey"},
	}, nil
}

// ExportAgreementPrivate encodes a P-256 ECDH private key, including the
// private scalar. Records of this kind must never leave the local store.
func ExportAgreementPrivate(priv *ecdh.PrivateKey) (Record, error) {
	rec, err := ExportAgreementPublic(priv.PublicKey())
	if err != nil {
		return Record{}, err
	}
	rec.D = encode(priv.Bytes())
	return rec, nil
}

// ExportSigningPublic encodes a P-256 ECDSA verification key.
func ExportSigningPublic(pub *ecdsa.PublicKey) (Record, error) {
	if pub.Curve != elliptic.P256() {
		return Record{}, fmt.Errorf("%w: unsupported curve", ErrMalformed)
	}
	return Record{
		Kty:    keyTypeEC,
		Crv:    curveP256,
		X:      encode(pad(pub.X)),
		Y:      encode(pad(pub.Y)),
		KeyOps: []string{"verify"},
	}, nil
}

// ExportSigningPrivate encodes a P-256 ECDSA signing key, including the
// private scalar. Records of this kind must never leave the local store.
func ExportSigningPrivate(priv *ecdsa.PrivateKey) (Record, error) {
	rec, err := ExportSigningPublic(&priv.PublicKey)
	if err != nil {
		return Record{}, err
	}
	rec.D = encode(pad(priv.D))
	rec.KeyOps = []string{"sign"}
	return rec, nil
}

// ImportAgreementPublic decodes an agreement-public record.
func ImportAgreementPublic(rec Record) (*ecdh.PublicKey, error) {
	if err := rec.Validate(KindAgreementPublic); err != nil {
		return nil, err
	}
	point, err := joinPoint(rec.X, rec.Y)
	if err != nil {
		return nil, err
	}
	pub, err := ecdh.P256().NewPublicKey(point)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return pub, nil
}

// ImportAgreementPrivate decodes an agreement-private record.
func ImportAgreementPrivate(rec Record) (*ecdh.PrivateKey, error) {
	if err := rec.Validate(KindAgreementPrivate); err != nil {
		return nil, err
	}
	d, err := decode(rec.D)
	if err != nil {
		return nil, err
	}
	priv, err := ecdh.P256().NewPrivateKey(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return priv, nil
}

// ImportSigningPublic decodes a signing-public record.
func ImportSigningPublic(rec Record) (*ecdsa.PublicKey, error) {
	if err := rec.Validate(KindSigningPublic); err != nil {
		return nil, err
	}
	return signingPublic(rec)
}

// ImportSigningPrivate decodes a signing-private record.
func ImportSigningPrivate(rec Record) (*ecdsa.PrivateKey, error) {
	if err := rec.Validate(KindSigningPrivate); err != nil {
		return nil, err
	}
	pub, err := signingPublic(rec)
	if err != nil {
		return nil, err
	}
	d, err := decode(rec.D)
	if err != nil {
		return nil, err
	}
	priv := &ecdsa.PrivateKey{PublicKey: *pub, D: new(big.Int).SetBytes(d)}
	if priv.D.Sign() <= 0 || priv.D.Cmp(elliptic.P256().Params().N) >= 0 {
		return nil, fmt.Errorf("%w: private scalar out of range", ErrMalformed)
	}
	return priv, nil
}

func signingPublic(rec Record) (*ecdsa.PublicKey, error) {
	xb, err := decode(rec.X)
	if err != nil {
		return nil, err
	}
	yb, err := decode(rec.Y)
	if err != nil {
		return nil, err
	}
	pub := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xb),
		Y:     new(big.Int).SetBytes(yb),
	}
	// Round-trip through the ECDH representation to reject off-curve points.
	if _, err := pub.ECDH(); err != nil {
		return nil, fmt.Errorf("%w: point not on curve", ErrMalformed)
	}
	return pub, nil
}

func hasOp(ops []string, want string) bool {
	for _, op := range ops {
		if op == want {
			return true
		}
	}
	return false
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64url field", ErrMalformed)
	}
	if len(b) != coordBytes {
		return nil, fmt.Errorf("%w: field is %d bytes, want %d", ErrMalformed, len(b), coordBytes)
	}
	return b, nil
}

// splitPoint unwraps an uncompressed SEC1 point (0x04 || X || Y).
func splitPoint(p []byte) ([]byte, []byte, error) {
	if len(p) != 1+2*coordBytes || p[0] != 4 {
		return nil, nil, fmt.Errorf("%w: bad public point encoding", ErrMalformed)
	}
	return p[1 : 1+coordBytes], p[1+coordBytes:], nil
}

func joinPoint(x, y string) ([]byte, error) {
	xb, err := decode(x)
	if err != nil {
		return nil, err
	}
	yb, err := decode(y)
	if err != nil {
		return nil, err
	}
	point := make([]byte, 0, 1+2*coordBytes)
	point = append(point, 4)
	point = append(point, xb...)
	return append(point, yb...), nil
}

// pad left-pads a big.Int to the P-256 field size.
func pad(v *big.Int) []byte {
	return v.FillBytes(make([]byte, coordBytes))
}

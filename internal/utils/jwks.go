package utils

import (
    "crypto/rsa"
    "crypto/sha256"
    "crypto/x509"
    "encoding/base64"
    "errors"
    "math/big"
)

// JWKSet is the document served from /.well-known/jwks.json so that
// other services can verify access tokens without holding the private
// key.  Only the single active signing key is published.
type JWKSet struct {
    Keys []JWK `json:"keys"`
}

// JWK describes one RSA verification key in JWK form.
type JWK struct {
    Kty string `json:"kty"`
    Use string `json:"use,omitempty"`
    Kid string `json:"kid,omitempty"`
    Alg string `json:"alg,omitempty"`
    N   string `json:"n"`
    E   string `json:"e"`
}

// NewJWKSet renders the access-token public key as a one-entry key set.
func NewJWKSet(publicKey *rsa.PublicKey) (JWKSet, error) {
    if publicKey == nil {
        return JWKSet{}, errors.New("missing public key")
    }
    kid, err := keyID(publicKey)
    if err != nil {
        return JWKSet{}, err
    }
    jwk := JWK{
        Kty: "RSA",
        Use: "sig",
        Alg: "RS256",
        Kid: kid,
        N:   base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes()),
        E:   base64.RawURLEncoding.EncodeToString(intToBytes(publicKey.E)),
    }
    return JWKSet{Keys: []JWK{jwk}}, nil
}

// keyID derives a stable identifier from the DER encoding of the key so
// the kid survives process restarts.
func keyID(publicKey *rsa.PublicKey) (string, error) {
    der, err := x509.MarshalPKIXPublicKey(publicKey)
    if err != nil {
        return "", err
    }
    sum := sha256.Sum256(der)
    return base64.RawURLEncoding.EncodeToString(sum[:8]), nil
}

func intToBytes(value int) []byte {
    if value == 0 {
        return []byte{0}
    }
    return big.NewInt(int64(value)).Bytes()
}

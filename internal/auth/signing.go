package auth

// SigningKey holds the symmetric secret used to sign and verify tokens.
// It is derived once at process start and read-only afterwards; it must
// never be serialized or logged.
type SigningKey struct {
	key []byte
}

// NewSigningKey derives the key material from the configured secret.
func NewSigningKey(secret string) SigningKey {
	return SigningKey{key: []byte(secret)}
}

// Bytes exposes the raw key for the MAC computation.
func (k SigningKey) Bytes() []byte {
	return k.key
}

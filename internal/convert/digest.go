package convert

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"slices"
	"strings"
)

var digestAlgorithms = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// DigestAlgorithms returns the supported algorithm names in sorted order.
func DigestAlgorithms() []string {
	names := make([]string, 0, len(digestAlgorithms))
	for name := range digestAlgorithms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Digest hashes the charset bytes of text and returns the lowercase hex digest.
func Digest(text, algorithm, charset string) (string, error) {
	newHash, ok := digestAlgorithms[strings.ToLower(strings.TrimSpace(algorithm))]
	if !ok {
		return "", inputErrorf("digest", "unsupported algorithm %q (supported: %s)", algorithm, strings.Join(DigestAlgorithms(), ", "))
	}
	b, err := encodeText("digest", text, charset)
	if err != nil {
		return "", err
	}
	h := newHash()
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil)), nil
}

package config

import (
	"crypto/sha256"
	"encoding/hex"

	"gopkg.in/yaml.v3"
)

// Fingerprint identifies a definition's content. An explicit Version wins;
// otherwise it is the first 8 bytes of the SHA-256 of the canonical YAML
// encoding, hex encoded. Map keys are sorted when encoding, so equal
// definitions always share a fingerprint.
func Fingerprint(def *Definition) string {
	if def.Version != "" {
		return def.Version
	}
	data, err := yaml.Marshal(def)
	if err != nil {
		return "invalid"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

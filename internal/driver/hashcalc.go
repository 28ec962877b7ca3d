package driver

import (
	"crypto/sha256"

	"csorder/internal/policy"
	"csorder/internal/source"
	"csorder/internal/version"
)

// Digest is a SHA-256 value used as a cache key.
type Digest [32]byte

// combineDigest: H(content || part1 || part2 ...). Части идут в фиксированном порядке.
func combineDigest(content [32]byte, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		// разделитель, чтобы "ab"+"c" != "a"+"bc"
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// VerdictKey identifies one analysis of file: its content, the policy, the
// checked stage and the tool version.
func VerdictKey(file *source.File, pol *policy.Policy, stage DiagnoseStage, disabled string) Digest {
	return combineDigest(file.Hash, pol.Hash(), string(stage), disabled, version.Version)
}

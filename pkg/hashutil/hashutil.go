package hashutil

/*
	Responsibilities:
	- Derive the hex digests behind artifact identity: filenames are keyed
	  by the canonical URL's digest, rerun detection by the content digest
	- Keep the algorithm choice explicit at every call site

	Artifact naming uses BLAKE3; SHA-256 stays available for external
	tooling that expects it.
*/

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256 HashAlgo = "sha256"
	HashAlgoBLAKE3 HashAlgo = "blake3"
)

// HashBytes digests data with the selected algorithm and returns the
// lowercase hex form. An unknown algorithm is an error, never a fallback.
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	switch algo {
	case HashAlgoSHA256:
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	case HashAlgoBLAKE3:
		sum := blake3.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

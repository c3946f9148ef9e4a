package expr

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/mathstep/core/invariant"
)

// Fingerprint identifies a tree snapshot. Two trees share a fingerprint
// exactly when they are structurally equal.
type Fingerprint [blake2b.Size256]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Short returns the first 8 hex characters, for logs.
func (f Fingerprint) Short() string {
	return f.String()[:8]
}

// IsZero reports whether f was never computed.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// canonicalNode is the CBOR shape of a tree node. Field order and key names
// are fixed so the encoding is byte-stable.
type canonicalNode struct {
	Kind     uint8           `cbor:"1,keyasint"`
	Parts    []string        `cbor:"2,keyasint,omitempty"`
	Op       string          `cbor:"3,keyasint,omitempty"`
	Children []canonicalNode `cbor:"4,keyasint,omitempty"`
}

func canonicalize(n Node) canonicalNode {
	cn := canonicalNode{Kind: uint8(n.Kind())}
	switch v := n.(type) {
	case *Number:
		cn.Parts = []string{v.Value}
	case *Fraction:
		cn.Parts = []string{v.Num, v.Den}
	case *Mixed:
		cn.Parts = []string{v.Whole, v.Num, v.Den}
	case *Variable:
		cn.Parts = []string{v.Name}
	case *Binary:
		cn.Op = v.Op.String()
		cn.Children = []canonicalNode{canonicalize(v.Left), canonicalize(v.Right)}
	}
	return cn
}

var canonicalEncMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	invariant.ExpectNoError(err, "canonical CBOR encoder setup")
	return mode
}()

// MarshalCanonical returns the deterministic CBOR encoding of the tree.
func MarshalCanonical(n Node) ([]byte, error) {
	invariant.NotNil(n, "node")
	return canonicalEncMode.Marshal(canonicalize(n))
}

// FingerprintOf hashes the canonical encoding of a tree.
func FingerprintOf(n Node) Fingerprint {
	data, err := MarshalCanonical(n)
	invariant.ExpectNoError(err, "canonical tree encoding")
	return Fingerprint(blake2b.Sum256(data))
}

package domain

import (
	"encoding/binary"
	"strconv"

	"golang.org/x/crypto/sha3"

	dErrors "verifi/pkg/domain-errors"
)

// DocumentID identifies a registered document. In the default addressing
// mode callers pick the ID; in content-derived mode it comes from the
// document's content pointer via DeriveDocumentID. One deployment uses one
// mode, never both.
type DocumentID uint64

// ParseDocumentID constructs a DocumentID from its decimal string form.
func ParseDocumentID(s string) (DocumentID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "document id cannot be empty")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "document id must be a non-negative integer")
	}
	return DocumentID(v), nil
}

// DeriveDocumentID maps a content pointer (an IPFS CID or similar) to a
// stable DocumentID by hashing it and taking the leading 8 bytes. Deleted
// IDs in this mode stay permanently absent unless the same content is
// re-registered.
func DeriveDocumentID(contentCID string) DocumentID {
	sum := sha3.Sum256([]byte(contentCID))
	return DocumentID(binary.BigEndian.Uint64(sum[:8]))
}

// String returns the decimal representation of the ID.
func (d DocumentID) String() string {
	return strconv.FormatUint(uint64(d), 10)
}

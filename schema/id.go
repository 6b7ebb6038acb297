package schema

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// ObjectID, PageID, and DocumentID are opaque, time-orderable identifiers:
// a millisecond timestamp concatenated with random bits.
type ObjectID string
type PageID string
type DocumentID string

func randomUint32() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand.Read failing is a platform-level fault; fall back to
		// a fixed value rather than panicking mid-document-mutation.
		return 0
	}
	return binary.BigEndian.Uint32(b[:])
}

func generateID(prefix string, ts int64) string {
	return fmt.Sprintf("%s-%012x%08x", prefix, ts, randomUint32())
}

// NewObjectID generates a time-orderable object identifier.
func NewObjectID(ts int64) ObjectID {
	return ObjectID(generateID("obj", ts))
}

// NewPageID generates a time-orderable page identifier.
func NewPageID(ts int64) PageID {
	return PageID(generateID("page", ts))
}

// NewDocumentID generates a time-orderable document identifier.
func NewDocumentID(ts int64) DocumentID {
	return DocumentID(generateID("doc", ts))
}

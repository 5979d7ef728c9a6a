// Package protocol appends audit entries to the context-keyed protocol
// buckets. Entries are immutable once written and live at the front of
// their bucket, newest first.
package protocol

import (
	"time"

	"github.com/google/uuid"

	"arbeitskorb/internal/domain"
	"arbeitskorb/internal/store"
)

const (
	// SourceBasket marks entries written by work-item actions.
	SourceBasket = "Arbeitskorb"
	// SourceDocumentService marks entries written by document intake.
	SourceDocumentService = "Dokumentenservice"
)

type Writer struct {
	Now   func() time.Time
	NewID func() string
}

// Append writes one entry to the front of the key's bucket. It runs
// inside a store.Update closure, so the caller's mutation and the audit
// line land together or not at all.
func (w Writer) Append(st *store.State, key domain.ContextKey, source, message string) domain.ProtocolEntry {
	entry := domain.ProtocolEntry{
		ID:        "LOG-" + w.newID(),
		Timestamp: w.now().UTC(),
		Source:    source,
		Message:   message,
	}
	st.InsertProtocol(key, entry)
	return entry
}

func (w Writer) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w Writer) newID() string {
	if w.NewID != nil {
		return w.NewID()
	}
	return ShortToken()
}

// ShortToken returns an 8-char opaque id fragment, the user-visible
// part of LOG-/DOC- ids.
func ShortToken() string {
	return uuid.NewString()[:8]
}

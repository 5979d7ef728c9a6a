package domain

import (
	"fmt"
	"strings"
	"time"
)

// ObjectType is the kind of business object a work item points at.
type ObjectType string

const (
	ObjectCustomer ObjectType = "CUSTOMER"
	ObjectContract ObjectType = "CONTRACT"
	ObjectClaim    ObjectType = "CLAIM"
)

// ParseObjectType accepts the wire token case-insensitively.
func ParseObjectType(s string) (ObjectType, error) {
	switch ObjectType(strings.ToUpper(s)) {
	case ObjectCustomer:
		return ObjectCustomer, nil
	case ObjectContract:
		return ObjectContract, nil
	case ObjectClaim:
		return ObjectClaim, nil
	}
	return "", fmt.Errorf("unknown object type %q", s)
}

// Status of a work item.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusBlocked    Status = "BLOCKED"
	StatusDone       Status = "DONE"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(s)) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusBlocked:
		return StatusBlocked, nil
	case StatusDone:
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// BasketScope narrows a search to a worker's view of the inbox.
// The zero value applies no basket stage at all; boundary layers
// default the parameter to BasketMy.
type BasketScope string

const (
	BasketMy        BasketScope = "MY"
	BasketTeam      BasketScope = "TEAM"
	BasketColleague BasketScope = "COLLEAGUE"
)

func ParseBasketScope(s string) (BasketScope, error) {
	switch BasketScope(strings.ToUpper(s)) {
	case BasketMy:
		return BasketMy, nil
	case BasketTeam:
		return BasketTeam, nil
	case BasketColleague:
		return BasketColleague, nil
	}
	return "", fmt.Errorf("unknown basket scope %q", s)
}

// WorkItem is one task in the inbox, tied to a single business object.
// ID, ReceivedAt, Team and the (ObjectType, ObjectID) pair never change
// after seeding; Status, AssignedTo and DueAt change through actions.
type WorkItem struct {
	ID           string     `json:"id"`
	ObjectType   ObjectType `json:"objectType" enum:"CUSTOMER,CONTRACT,CLAIM"`
	ObjectID     string     `json:"objectId"`
	ObjectLabel  string     `json:"objectLabel"`
	CustomerName string     `json:"customerName"`
	ContractNo   string     `json:"contractNo"`
	ClaimNo      string     `json:"claimNo,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       Status     `json:"status" enum:"OPEN,IN_PROGRESS,BLOCKED,DONE"`
	Priority     int        `json:"priority"`
	ReceivedAt   time.Time  `json:"receivedAt" format:"date-time"`
	DueAt        time.Time  `json:"dueAt" format:"date-time"`
	AssignedTo   string     `json:"assignedTo"`
	Team         string     `json:"team"`
}

// Key returns the item's context key.
func (w WorkItem) Key() ContextKey {
	return NewContextKey(w.ObjectType, w.ObjectID)
}

// Document is uploaded file metadata owned by one context-key bucket.
// The store never holds file bytes.
type Document struct {
	ID            string    `json:"id"`
	FileName      string    `json:"fileName"`
	MimeType      string    `json:"mimeType"`
	SizeInBytes   int64     `json:"sizeInBytes"`
	IndexKeywords []string  `json:"indexKeywords"`
	UploadedAt    time.Time `json:"uploadedAt" format:"date-time"`
	UploadedBy    string    `json:"uploadedBy"`
}

// ProtocolEntry is one append-only audit line for a context key.
type ProtocolEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp" format:"date-time"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
}

// ContextKey joins a work item to its document and protocol buckets.
// The object id is normalized to upper case so that two items referring
// to the same object always resolve to the same buckets. Comparable,
// usable as a map key.
type ContextKey struct {
	Type ObjectType
	ID   string
}

func NewContextKey(t ObjectType, objectID string) ContextKey {
	return ContextKey{Type: t, ID: strings.ToUpper(objectID)}
}

func (k ContextKey) String() string {
	return string(k.Type) + ":" + k.ID
}

// ParseContextKey reverses String.
func ParseContextKey(s string) (ContextKey, error) {
	typ, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return ContextKey{}, fmt.Errorf("malformed context key %q", s)
	}
	t, err := ParseObjectType(typ)
	if err != nil {
		return ContextKey{}, err
	}
	return NewContextKey(t, id), nil
}

package server

import (
	"time"

	"arbeitskorb/internal/domain"
	"arbeitskorb/internal/engine"
)

// Request payloads

type ActionRequest struct {
	Action     string     `json:"action" enum:"START,FORWARD,RESCHEDULE,COMPLETE"`
	Comment    string     `json:"comment,omitempty"`
	Assignee   string     `json:"assignee,omitempty"`
	FollowUpAt *time.Time `json:"followUpAt,omitempty" format:"date-time"`
}

type UploadDocumentRequest struct {
	FileName      string   `json:"fileName"`
	MimeType      string   `json:"mimeType,omitempty"`
	SizeInBytes   int64    `json:"sizeInBytes,omitempty"`
	IndexKeywords []string `json:"indexKeywords,omitempty"`
	UploadedBy    string   `json:"uploadedBy,omitempty"`
}

// Response payloads. The engine's value types already carry the wire
// shape, so responses alias them instead of re-mapping field by field.

type WorkItemsPageResponse = engine.SearchResult

type WorkItemResponse = domain.WorkItem

type DocumentResponse = domain.Document

type ContextViewResponse = engine.ContextView

package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"arbeitskorb/internal/config"
	"arbeitskorb/internal/domain"
	"arbeitskorb/internal/protocol"
	"arbeitskorb/internal/store"
)

var (
	// ErrInvalidRequest marks a read with missing required parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidCommand marks a mutation with missing required fields.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrInvalidAction marks an unrecognized action token.
	ErrInvalidAction = errors.New("invalid action")
)

// Engine runs the casework operations against one store: search, the
// action state machine, the context view, and document intake. Every
// mutation appends its audit line in the same store update.
type Engine struct {
	Store  *store.Store
	Config *config.Config
	Now    func() time.Time
	NewID  func() string
}

func New(st *store.Store, cfg *config.Config) Engine {
	return Engine{
		Store:  st,
		Config: cfg,
		Now:    time.Now,
		NewID:  protocol.ShortToken,
	}
}

// protocolWriter builds a writer sharing the engine's clock and id
// source, so injected test doubles reach the audit entries too.
func (e Engine) protocolWriter() protocol.Writer {
	return protocol.Writer{Now: e.Now, NewID: e.NewID}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return protocol.ShortToken()
}

// GetWorkItem returns the work item with the given id.
func (e Engine) GetWorkItem(ctx context.Context, id string) (domain.WorkItem, error) {
	var item domain.WorkItem
	err := e.Store.View(func(st *store.State) error {
		found, err := st.FindItem(id)
		if err != nil {
			return fmt.Errorf("work item %s: %w", id, err)
		}
		item = *found
		return nil
	})
	return item, err
}

// ContextView aggregates everything known about one business object:
// its work items newest-first, plus the document and protocol buckets
// under the object's context key.
type ContextView struct {
	ObjectType      domain.ObjectType      `json:"objectType" enum:"CUSTOMER,CONTRACT,CLAIM"`
	ObjectID        string                 `json:"objectId"`
	Title           string                 `json:"title"`
	Subtitle        string                 `json:"subtitle"`
	Tasks           []domain.WorkItem      `json:"tasks"`
	Documents       []domain.Document      `json:"documents"`
	ProtocolEntries []domain.ProtocolEntry `json:"protocolEntries"`
}

// GetContext resolves the context view for (objectType, objectId). The
// object id is matched case-insensitively. The most recently received
// matching item supplies title and subtitle.
func (e Engine) GetContext(ctx context.Context, objectType domain.ObjectType, objectID string) (ContextView, error) {
	var view ContextView
	if objectType == "" || strings.TrimSpace(objectID) == "" {
		return view, fmt.Errorf("%w: context requires objectType and objectId", ErrInvalidRequest)
	}
	err := e.Store.View(func(st *store.State) error {
		var tasks []domain.WorkItem
		for _, item := range st.Items {
			if item.ObjectType == objectType && strings.EqualFold(item.ObjectID, objectID) {
				tasks = append(tasks, item)
			}
		}
		if len(tasks) == 0 {
			return fmt.Errorf("no context for %s/%s: %w", objectType, objectID, store.ErrNotFound)
		}
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[j].ReceivedAt.Before(tasks[i].ReceivedAt)
		})
		first := tasks[0]
		key := domain.NewContextKey(objectType, objectID)
		view = ContextView{
			ObjectType: objectType,
			ObjectID:   objectID,
			Title:      first.ObjectLabel,
			Subtitle: fmt.Sprintf("%s · Vertrag %s · Schaden %s",
				first.CustomerName, orDash(first.ContractNo), orDash(first.ClaimNo)),
			Tasks:           tasks,
			Documents:       append([]domain.Document{}, st.Documents[key]...),
			ProtocolEntries: append([]domain.ProtocolEntry{}, st.Protocol[key]...),
		}
		return nil
	})
	return view, err
}

// UploadCommand carries the metadata of one uploaded document. The
// bytes themselves never reach this service.
type UploadCommand struct {
	FileName      string
	MimeType      string
	SizeInBytes   int64
	IndexKeywords []string
	UploadedBy    string
}

// UploadDocument records the document at the front of the context key's
// bucket and writes the matching audit line. Blank mime type, negative
// size, missing keywords and missing uploader are defaulted; a missing
// file name is an error and leaves both buckets untouched.
func (e Engine) UploadDocument(ctx context.Context, objectType domain.ObjectType, objectID string, cmd UploadCommand) (domain.Document, error) {
	var doc domain.Document
	if strings.TrimSpace(cmd.FileName) == "" {
		return doc, fmt.Errorf("%w: document requires fileName", ErrInvalidCommand)
	}
	mimeType := cmd.MimeType
	if strings.TrimSpace(mimeType) == "" {
		mimeType = "application/octet-stream"
	}
	size := cmd.SizeInBytes
	if size < 0 {
		size = 0
	}
	keywords := cmd.IndexKeywords
	if keywords == nil {
		keywords = []string{}
	}
	uploadedBy := cmd.UploadedBy
	if strings.TrimSpace(uploadedBy) == "" {
		uploadedBy = e.Config.User.Name
	}
	doc = domain.Document{
		ID:            "DOC-" + e.newID(),
		FileName:      cmd.FileName,
		MimeType:      mimeType,
		SizeInBytes:   size,
		IndexKeywords: keywords,
		UploadedAt:    e.now().UTC(),
		UploadedBy:    uploadedBy,
	}
	key := domain.NewContextKey(objectType, objectID)
	err := e.Store.Update(func(st *store.State) error {
		st.InsertDocument(key, doc)
		e.protocolWriter().Append(st, key, protocol.SourceDocumentService,
			fmt.Sprintf("Dokument %s hochgeladen und indexiert (%s).",
				doc.FileName, strings.Join(doc.IndexKeywords, ", ")))
		return nil
	})
	if err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// Reset restores the seed snapshot.
func (e Engine) Reset(ctx context.Context) error {
	return e.Store.Reset()
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

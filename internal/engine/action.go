package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arbeitskorb/internal/domain"
	"arbeitskorb/internal/protocol"
	"arbeitskorb/internal/store"
)

// Action is one of the four work-item transitions. Each variant carries
// only the fields its transition needs, so a reschedule without a
// timestamp or a forward without an assignee cannot be built by
// accident — only parsed from untrusted input and rejected there.
type Action interface {
	isAction()
}

// Start moves the item to IN_PROGRESS.
type Start struct{}

// Forward hands the item to another worker and reopens it.
type Forward struct {
	Assignee string
}

// Reschedule parks the item as BLOCKED until the follow-up date.
type Reschedule struct {
	FollowUpAt time.Time
}

// Complete moves the item to DONE.
type Complete struct{}

func (Start) isAction()      {}
func (Forward) isAction()    {}
func (Reschedule) isAction() {}
func (Complete) isAction()   {}

// ParseAction maps a wire-level action command onto the typed variants.
// Unknown tokens fail with ErrInvalidAction; field preconditions are
// checked later by ApplyAction.
func ParseAction(token, assignee string, followUpAt *time.Time) (Action, error) {
	switch strings.ToUpper(token) {
	case "START":
		return Start{}, nil
	case "FORWARD":
		return Forward{Assignee: assignee}, nil
	case "RESCHEDULE":
		var at time.Time
		if followUpAt != nil {
			at = *followUpAt
		}
		return Reschedule{FollowUpAt: at}, nil
	case "COMPLETE":
		return Complete{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidAction, token)
}

// ApplyAction runs one transition on the work item and appends exactly
// one protocol entry to the item's context bucket. Transitions are not
// guarded by the current status: completing a DONE item succeeds and is
// logged like any other action. A non-blank comment is recorded as a
// suffix of the audit message.
func (e Engine) ApplyAction(ctx context.Context, id string, act Action, comment string) (domain.WorkItem, error) {
	if act == nil {
		return domain.WorkItem{}, fmt.Errorf("%w: action command requires action", ErrInvalidAction)
	}
	var updated domain.WorkItem
	err := e.Store.Update(func(st *store.State) error {
		item, err := st.FindItem(id)
		if err != nil {
			return fmt.Errorf("work item %s: %w", id, err)
		}
		msg, err := applyTransition(item, act)
		if err != nil {
			return err
		}
		if strings.TrimSpace(comment) != "" {
			msg = msg + " Kommentar: " + comment
		}
		e.protocolWriter().Append(st, item.Key(), protocol.SourceBasket, msg)
		updated = *item
		return nil
	})
	if err != nil {
		return domain.WorkItem{}, err
	}
	return updated, nil
}

func applyTransition(item *domain.WorkItem, act Action) (string, error) {
	switch a := act.(type) {
	case Start:
		item.Status = domain.StatusInProgress
		return fmt.Sprintf("Aufgabe %s wurde gestartet.", item.ID), nil
	case Forward:
		if strings.TrimSpace(a.Assignee) == "" {
			return "", fmt.Errorf("%w: forward action requires assignee", ErrInvalidCommand)
		}
		item.AssignedTo = a.Assignee
		item.Status = domain.StatusOpen
		return fmt.Sprintf("Aufgabe %s wurde an %s weitergeleitet.", item.ID, a.Assignee), nil
	case Reschedule:
		if a.FollowUpAt.IsZero() {
			return "", fmt.Errorf("%w: reschedule action requires followUpAt", ErrInvalidCommand)
		}
		item.DueAt = a.FollowUpAt
		item.Status = domain.StatusBlocked
		return fmt.Sprintf("Aufgabe %s wurde auf Wiedervorlage %s gesetzt.",
			item.ID, a.FollowUpAt.UTC().Format(time.RFC3339)), nil
	case Complete:
		item.Status = domain.StatusDone
		return fmt.Sprintf("Aufgabe %s wurde abgeschlossen.", item.ID), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrInvalidAction, act)
	}
}

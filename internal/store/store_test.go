package store

import (
	"errors"
	"testing"
	"time"

	"arbeitskorb/internal/domain"
)

func TestSeedShape(t *testing.T) {
	s := New()
	err := s.View(func(st *State) error {
		if len(st.Items) != 6 {
			t.Fatalf("expected 6 seeded items, got %d", len(st.Items))
		}
		claim := domain.NewContextKey(domain.ObjectClaim, "S-2001")
		if len(st.Documents[claim]) != 2 {
			t.Fatalf("expected 2 documents under %s", claim)
		}
		if len(st.Protocol[claim]) != 2 {
			t.Fatalf("expected 2 protocol entries under %s", claim)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestUpdateDiscardedOnError(t *testing.T) {
	s := New()
	wantErr := errors.New("boom")
	err := s.Update(func(st *State) error {
		item, findErr := st.FindItem("WI-3001")
		if findErr != nil {
			t.Fatalf("find: %v", findErr)
		}
		item.Status = domain.StatusDone
		st.InsertProtocol(item.Key(), domain.ProtocolEntry{ID: "LOG-x"})
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected boom, got %v", err)
	}
	_ = s.View(func(st *State) error {
		item, _ := st.FindItem("WI-3001")
		if item.Status != domain.StatusOpen {
			t.Fatalf("failed update leaked: status %s", item.Status)
		}
		key := domain.NewContextKey(domain.ObjectCustomer, "K-1001")
		for _, entry := range st.Protocol[key] {
			if entry.ID == "LOG-x" {
				t.Fatalf("failed update leaked a protocol entry")
			}
		}
		return nil
	})
}

func TestBucketFrontInsert(t *testing.T) {
	s := New()
	key := domain.NewContextKey(domain.ObjectClaim, "S-2001")
	err := s.Update(func(st *State) error {
		st.InsertDocument(key, domain.Document{ID: "DOC-new"})
		st.InsertProtocol(key, domain.ProtocolEntry{ID: "LOG-new"})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	_ = s.View(func(st *State) error {
		if st.Documents[key][0].ID != "DOC-new" {
			t.Fatalf("document not inserted at front: %s", st.Documents[key][0].ID)
		}
		if st.Protocol[key][0].ID != "LOG-new" {
			t.Fatalf("protocol entry not inserted at front: %s", st.Protocol[key][0].ID)
		}
		return nil
	})
}

func TestResetIdempotent(t *testing.T) {
	s := New()
	key := domain.NewContextKey(domain.ObjectClaim, "S-2001")
	_ = s.Update(func(st *State) error {
		item, _ := st.FindItem("WI-3003")
		item.Status = domain.StatusDone
		st.InsertDocument(key, domain.Document{ID: "DOC-tmp"})
		return nil
	})
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("second reset: %v", err)
	}
	_ = s.View(func(st *State) error {
		item, _ := st.FindItem("WI-3003")
		if item.Status != domain.StatusBlocked {
			t.Fatalf("reset did not restore status, got %s", item.Status)
		}
		if len(st.Documents[key]) != 2 || st.Documents[key][0].ID != "DOC-1001" {
			t.Fatalf("reset did not restore document bucket: %+v", st.Documents[key])
		}
		return nil
	})
}

func TestResetIsolatesSnapshots(t *testing.T) {
	s := New()
	var leaked *domain.WorkItem
	_ = s.View(func(st *State) error {
		item, _ := st.FindItem("WI-3001")
		leaked = item
		return nil
	})
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	// Mutating a stale pointer must not reach the restored snapshot.
	leaked.Status = domain.StatusDone
	_ = s.View(func(st *State) error {
		item, _ := st.FindItem("WI-3001")
		if item.Status != domain.StatusOpen {
			t.Fatalf("stale reference reached the restored snapshot")
		}
		return nil
	})
}

func TestSnapshotPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := domain.NewContextKey(domain.ObjectCustomer, "K-1001")
	err = s.Update(func(st *State) error {
		item, findErr := st.FindItem("WI-3001")
		if findErr != nil {
			return findErr
		}
		item.Status = domain.StatusInProgress
		item.DueAt = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
		st.InsertProtocol(key, domain.ProtocolEntry{
			ID: "LOG-persist", Timestamp: time.Date(2024, 6, 20, 8, 0, 0, 0, time.UTC),
			Source: "Arbeitskorb", Message: "Aufgabe WI-3001 wurde gestartet.",
		})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(Config{Workspace: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	_ = reopened.View(func(st *State) error {
		item, _ := st.FindItem("WI-3001")
		if item == nil || item.Status != domain.StatusInProgress {
			t.Fatalf("mutation not persisted")
		}
		if len(st.Protocol[key]) == 0 || st.Protocol[key][0].ID != "LOG-persist" {
			t.Fatalf("protocol entry not persisted: %+v", st.Protocol[key])
		}
		return nil
	})
	if err := reopened.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	_ = reopened.View(func(st *State) error {
		item, _ := st.FindItem("WI-3001")
		if item.Status != domain.StatusOpen {
			t.Fatalf("reset did not restore persisted store")
		}
		return nil
	})
}

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"arbeitskorb/internal/domain"
)

const snapshotDBName = "arbeitskorb.db"

// Config locates the workspace snapshot database.
type Config struct {
	Workspace string
}

func dbPath(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".arbeitskorb", snapshotDBName)
}

// EnsureWorkspace creates the workspace directory if missing.
func EnsureWorkspace(workspace string) (string, error) {
	if workspace == "" {
		workspace = "."
	}
	path := filepath.Join(workspace, ".arbeitskorb")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// Open returns a store backed by the workspace snapshot database. A
// fresh workspace starts from the seed fixture; afterwards every Update
// and Reset writes the full state back, so CLI invocations share state.
// The snapshot is a drop-in durable stand-in behind the same Store
// surface the volatile New() store exposes.
func Open(cfg Config) (*Store, error) {
	if _, err := EnsureWorkspace(cfg.Workspace); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", dbPath(cfg.Workspace))
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	p := &persister{conn: conn}
	if err := p.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	s := New()
	s.db = p
	loaded, ok, err := p.load()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if ok {
		s.state = loaded
	} else if err := p.save(&s.state); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the snapshot database path for a workspace.
func Path(workspace string) string {
	return dbPath(workspace)
}

type persister struct {
	conn *sql.DB
}

func (p *persister) migrate() error {
	_, err := p.conn.Exec(`CREATE TABLE IF NOT EXISTS snapshot (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	)`)
	return err
}

type bucketDocs map[string][]domain.Document
type bucketLogs map[string][]domain.ProtocolEntry

func (p *persister) save(st *State) error {
	docs := make(bucketDocs, len(st.Documents))
	for k, v := range st.Documents {
		docs[k.String()] = v
	}
	logs := make(bucketLogs, len(st.Protocol))
	for k, v := range st.Protocol {
		logs[k.String()] = v
	}
	rows := []struct {
		name    string
		payload any
	}{
		{"work_items", st.Items},
		{"documents", docs},
		{"protocol", logs},
	}
	tx, err := p.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, row := range rows {
		data, err := json.Marshal(row.payload)
		if err != nil {
			return fmt.Errorf("marshal snapshot %s: %w", row.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO snapshot(name,payload) VALUES (?,?)
			ON CONFLICT(name) DO UPDATE SET payload=excluded.payload`, row.name, string(data)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (p *persister) load() (State, bool, error) {
	var st State
	payloads := map[string]string{}
	rows, err := p.conn.Query(`SELECT name, payload FROM snapshot`)
	if err != nil {
		return st, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return st, false, err
		}
		payloads[name] = payload
	}
	if err := rows.Err(); err != nil {
		return st, false, err
	}
	if len(payloads) == 0 {
		return st, false, nil
	}
	if err := json.Unmarshal([]byte(payloads["work_items"]), &st.Items); err != nil {
		return st, false, fmt.Errorf("load work_items: %w", err)
	}
	var docs bucketDocs
	if err := json.Unmarshal([]byte(payloads["documents"]), &docs); err != nil {
		return st, false, fmt.Errorf("load documents: %w", err)
	}
	var logs bucketLogs
	if err := json.Unmarshal([]byte(payloads["protocol"]), &logs); err != nil {
		return st, false, fmt.Errorf("load protocol: %w", err)
	}
	st.Documents = make(map[domain.ContextKey][]domain.Document, len(docs))
	for k, v := range docs {
		key, err := domain.ParseContextKey(k)
		if err != nil {
			return st, false, err
		}
		st.Documents[key] = v
	}
	st.Protocol = make(map[domain.ContextKey][]domain.ProtocolEntry, len(logs))
	for k, v := range logs {
		key, err := domain.ParseContextKey(k)
		if err != nil {
			return st, false, err
		}
		st.Protocol[key] = v
	}
	return st, true, nil
}

func (p *persister) close() error {
	return p.conn.Close()
}

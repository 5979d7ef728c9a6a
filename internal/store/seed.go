package store

import (
	"time"

	"arbeitskorb/internal/domain"
)

// Seed returns the fixed initial snapshot: six work items for two
// customers, plus pre-populated document and protocol buckets for the
// claim S-2001 and the contract V-1001. Ids and timestamps are
// deterministic so Reset reproduces the snapshot exactly.
func Seed() State {
	return State{
		Items:     seedItems(),
		Documents: seedDocuments(),
		Protocol:  seedProtocol(),
	}
}

func ts(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func seedItems() []domain.WorkItem {
	return []domain.WorkItem{
		{
			ID: "WI-3001", ObjectType: domain.ObjectCustomer, ObjectID: "K-1001",
			ObjectLabel: "Kunde K-1001", CustomerName: "Müller GmbH",
			ContractNo: "V-1001", ClaimNo: "S-2001",
			Title: "Adressänderung prüfen", Description: "Neue Korrespondenzadresse validieren.",
			Status: domain.StatusOpen, Priority: 1,
			ReceivedAt: ts(2024, time.June, 3, 8, 30), DueAt: ts(2024, time.June, 7, 16, 0),
			AssignedTo: "Alice", Team: "Leistung-Team Nord",
		},
		{
			ID: "WI-3002", ObjectType: domain.ObjectContract, ObjectID: "V-1001",
			ObjectLabel: "Vertrag V-1001", CustomerName: "Müller GmbH",
			ContractNo: "V-1001", ClaimNo: "S-2001",
			Title: "Vertragsverlängerung vorbereiten", Description: "Deckung prüfen und Angebot erstellen.",
			Status: domain.StatusInProgress, Priority: 2,
			ReceivedAt: ts(2024, time.June, 2, 9, 15), DueAt: ts(2024, time.June, 10, 12, 0),
			AssignedTo: "Bob", Team: "Leistung-Team Nord",
		},
		{
			ID: "WI-3003", ObjectType: domain.ObjectClaim, ObjectID: "S-2001",
			ObjectLabel: "Schaden S-2001", CustomerName: "Müller GmbH",
			ContractNo: "V-1001", ClaimNo: "S-2001",
			Title: "Reparaturrechnung nachfordern", Description: "Werkstatt hat keine Rechnung geliefert.",
			Status: domain.StatusBlocked, Priority: 1,
			ReceivedAt: ts(2024, time.June, 1, 11, 0), DueAt: ts(2024, time.June, 8, 14, 0),
			AssignedTo: "Clara", Team: "Leistung-Team Nord",
		},
		{
			ID: "WI-3004", ObjectType: domain.ObjectClaim, ObjectID: "S-2002",
			ObjectLabel: "Schaden S-2002", CustomerName: "Schmidt AG",
			ContractNo: "V-2001", ClaimNo: "S-2002",
			Title: "Regress prüfen", Description: "Prüfung Fremdverschulden erforderlich.",
			Status: domain.StatusOpen, Priority: 2,
			ReceivedAt: ts(2024, time.June, 4, 13, 20), DueAt: ts(2024, time.June, 11, 10, 0),
			AssignedTo: "Alice", Team: "Leistung-Team Süd",
		},
		{
			ID: "WI-3005", ObjectType: domain.ObjectCustomer, ObjectID: "K-1002",
			ObjectLabel: "Kunde K-1002", CustomerName: "Schmidt AG",
			ContractNo: "V-2001", ClaimNo: "S-2002",
			Title: "Bonitätsprüfung dokumentieren", Description: "Aktuelle Auskunft ablegen.",
			Status: domain.StatusDone, Priority: 3,
			ReceivedAt: ts(2024, time.May, 29, 7, 45), DueAt: ts(2024, time.June, 5, 18, 0),
			AssignedTo: "Daniel", Team: "Leistung-Team Süd",
		},
		{
			ID: "WI-3006", ObjectType: domain.ObjectContract, ObjectID: "V-2001",
			ObjectLabel: "Vertrag V-2001", CustomerName: "Schmidt AG",
			ContractNo: "V-2001", ClaimNo: "S-2002",
			Title: "SEPA-Mandat nachhalten", Description: "Mandat fehlt in den Stammdaten.",
			Status: domain.StatusInProgress, Priority: 2,
			ReceivedAt: ts(2024, time.June, 6, 10, 5), DueAt: ts(2024, time.June, 12, 17, 0),
			AssignedTo: "Eva", Team: "Leistung-Team Nord",
		},
	}
}

func seedDocuments() map[domain.ContextKey][]domain.Document {
	return map[domain.ContextKey][]domain.Document{
		domain.NewContextKey(domain.ObjectClaim, "S-2001"): {
			{
				ID: "DOC-1001", FileName: "Reparaturkostenvoranschlag.pdf",
				MimeType: "application/pdf", SizeInBytes: 232112,
				IndexKeywords: []string{"Schaden", "Werkstatt", "Kalkulation"},
				UploadedAt:    ts(2024, time.June, 1, 11, 30), UploadedBy: "Clara",
			},
			{
				ID: "DOC-1002", FileName: "Schadenfoto_01.jpg",
				MimeType: "image/jpeg", SizeInBytes: 1102112,
				IndexKeywords: []string{"Foto", "Frontschaden"},
				UploadedAt:    ts(2024, time.June, 1, 11, 32), UploadedBy: "Clara",
			},
		},
		domain.NewContextKey(domain.ObjectContract, "V-1001"): {
			{
				ID: "DOC-1003", FileName: "Vertragsentwurf_v2.docx",
				MimeType:    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
				SizeInBytes: 92400,
				IndexKeywords: []string{"Angebot", "Vertragsänderung"},
				UploadedAt:    ts(2024, time.June, 2, 10, 0), UploadedBy: "Bob",
			},
		},
	}
}

func seedProtocol() map[domain.ContextKey][]domain.ProtocolEntry {
	return map[domain.ContextKey][]domain.ProtocolEntry{
		domain.NewContextKey(domain.ObjectClaim, "S-2001"): {
			{
				ID: "LOG-2001", Timestamp: ts(2024, time.June, 1, 11, 40),
				Source: "Fachprotokoll", Message: "Schadenmeldung eingegangen und Erstprüfung gestartet.",
			},
			{
				ID: "LOG-2002", Timestamp: ts(2024, time.June, 2, 9, 0),
				Source: "Regelwerk", Message: "Automatische Deckungsprüfung ohne Treffer abgeschlossen.",
			},
		},
		domain.NewContextKey(domain.ObjectContract, "V-1001"): {
			{
				ID: "LOG-2003", Timestamp: ts(2024, time.June, 2, 9, 30),
				Source: "Bestand", Message: "Vertragsverlängerung aus Bestand ausgelöst.",
			},
		},
	}
}

// internal/client/row_test.go
//
// Wire-row conversion tests: fail-closed parsing and round-tripping.

package client

import (
	"testing"
	"time"

	"github.com/bodalink/bodalink/internal/plan"
)

func sampleRecord() Record {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	used := created.AddDate(0, 0, 3)
	return Record{
		ID:          "client-123",
		ClientName:  "Boda de Prueba",
		Subdomain:   "prueba",
		Token:       "boda-prueba-tok",
		IsActive:    true,
		CreatedAt:   created,
		LastUsedAt:  &used,
		WeddingDate: created.AddDate(0, 2, 0),
		AccessUntil: created.AddDate(0, 3, 0),
		PlanType:    plan.Premium,
		MaxGuests:   100,
		Features:    []string{"RSVP", "Countdown"},
		GroomName:   "Pedro",
		BrideName:   "Lucía",
	}
}

func TestRowRoundTrip(t *testing.T) {
	want := sampleRecord()

	got, err := fromRecord(want).toRecord()
	if err != nil {
		t.Fatalf("toRecord: %v", err)
	}

	if got.ID != want.ID || got.Subdomain != want.Subdomain || got.Token != want.Token {
		t.Fatalf("identity fields mangled: %+v", got)
	}
	if !got.AccessUntil.Equal(want.AccessUntil) || !got.WeddingDate.Equal(want.WeddingDate) {
		t.Fatalf("instants mangled: %+v", got)
	}
	if got.LastUsedAt == nil || !got.LastUsedAt.Equal(*want.LastUsedAt) {
		t.Fatalf("last_used mangled: %v", got.LastUsedAt)
	}
	if len(got.Features) != 2 || got.Features[1] != "Countdown" {
		t.Fatalf("features mangled: %v", got.Features)
	}
	if got.GroomName != "Pedro" || got.BrideName != "Lucía" {
		t.Fatalf("content fields mangled: %+v", got)
	}
}

func TestToRecord_FailsClosed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*row)
	}{
		{"missing id", func(w *row) { w.ID = "" }},
		{"missing subdomain", func(w *row) { w.Subdomain = "" }},
		{"missing token", func(w *row) { w.Token = "" }},
		{"zero access_until", func(w *row) { w.AccessUntil = time.Time{} }},
		{"bad features json", func(w *row) { w.Features = []byte(`{"not":"a list"}`) }},
	}
	for _, c := range cases {
		w := fromRecord(sampleRecord())
		c.mutate(&w)
		if _, err := w.toRecord(); err == nil {
			t.Errorf("%s: expected parse failure, got none", c.name)
		}
	}
}

func TestToRecord_EmptyOptionalColumns(t *testing.T) {
	w := fromRecord(sampleRecord())
	w.Features = nil
	w.LastUsed = nil
	w.GroomName.Valid = false
	w.GroomName.String = ""

	got, err := w.toRecord()
	if err != nil {
		t.Fatalf("toRecord: %v", err)
	}
	if got.LastUsedAt != nil || got.GroomName != "" || len(got.Features) != 0 {
		t.Fatalf("optional columns not defaulted: %+v", got)
	}
}

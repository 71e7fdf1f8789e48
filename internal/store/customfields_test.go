package store

import (
	"reflect"
	"testing"
)

func TestCustomFieldTableNames(t *testing.T) {
	table, ok := customFieldTable(4)
	if !ok || table != "custom_field_4" {
		t.Errorf("expected custom_field_4, got %q (ok=%v)", table, ok)
	}

	if _, ok := customFieldTable(-3); ok {
		t.Errorf("expected negative field ids to be rejected")
	}
}

func TestCustomFieldIDsSkipsForeignTables(t *testing.T) {
	s := newTestStore(t)

	rel := sampleRelease()
	if err := s.IngestRelease(rel, []NoteInput{
		{FieldID: 4, Value: "Mint"},
		{FieldID: 1, Value: "Keeper"},
	}); err != nil {
		t.Fatalf("failed to ingest release: %v", err)
	}

	// A stray table that matches the prefix but not the numeric convention
	if _, err := s.db.Exec("CREATE TABLE custom_field_extras (x INTEGER)"); err != nil {
		t.Fatalf("failed to create stray table: %v", err)
	}

	ids, err := s.CustomFieldIDs()
	if err != nil {
		t.Fatalf("failed to list custom fields: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{1, 4}) {
		t.Errorf("expected field ids [1 4], got %v", ids)
	}
}

func TestGetAllCustomFieldValues(t *testing.T) {
	s := newTestStore(t)

	first := sampleRelease()
	if err := s.IngestRelease(first, []NoteInput{{FieldID: 3, Value: "Mint"}}); err != nil {
		t.Fatalf("failed to ingest first release: %v", err)
	}

	second := sampleRelease()
	second.ID = 300000
	if err := s.IngestRelease(second, []NoteInput{{FieldID: 3, Value: "Good"}}); err != nil {
		t.Fatalf("failed to ingest second release: %v", err)
	}

	// Whitespace-only values collapse into the blanks bucket
	third := sampleRelease()
	third.ID = 300001
	if err := s.IngestRelease(third, []NoteInput{{FieldID: 3, Value: "   "}}); err != nil {
		t.Fatalf("failed to ingest third release: %v", err)
	}

	values, err := s.GetAllCustomFieldValues()
	if err != nil {
		t.Fatalf("failed to get custom field values: %v", err)
	}

	want := []string{BlanksSentinel, "Good", "Mint"}
	if !reflect.DeepEqual(values[3], want) {
		t.Errorf("expected %v, got %v", want, values[3])
	}
}

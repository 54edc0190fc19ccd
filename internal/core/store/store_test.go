package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveGeneratesID(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Save(context.Background(), Record{
		Kind:    KindTranscript,
		Date:    "2024-01-15",
		Content: "went for a walk",
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if id == "" {
		t.Error("expected generated id")
	}
}

func TestLatestOrdersNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"oldest", "middle", "newest"} {
		_, err := s.Save(ctx, Record{
			Kind:      KindTranscript,
			Date:      "2024-01-15",
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Latest(ctx, 2)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Content != "newest" || got[1].Content != "middle" {
		t.Errorf("wrong order: %q, %q", got[0].Content, got[1].Content)
	}
}

func TestByDateRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2024-01-10", "2024-01-15", "2024-01-20", "2024-02-01"} {
		_, err := s.Save(ctx, Record{Kind: KindSummary, Date: date})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ByDateRange(ctx, "2024-01-12", "2024-01-31")
	if err != nil {
		t.Fatalf("ByDateRange returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Date != "2024-01-15" || got[1].Date != "2024-01-20" {
		t.Errorf("wrong dates: %s, %s", got[0].Date, got[1].Date)
	}
}

func TestByDateRangeInclusive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, Record{Kind: KindOrganized, Date: "2024-01-15"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ByDateRange(ctx, "2024-01-15", "2024-01-15")
	if err != nil {
		t.Fatalf("ByDateRange returned error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("range bounds should be inclusive, got %d records", len(got))
	}
}

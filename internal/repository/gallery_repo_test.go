package repository

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	pgvector "github.com/pgvector/pgvector-go"

	"toonify/internal/domain"
)

type fakeRows struct {
	rows [][]interface{}
	idx  int
	err  error
}

func (f *fakeRows) Next() bool {
	if f.idx >= len(f.rows) {
		return false
	}
	f.idx++
	return true
}

func (f *fakeRows) Scan(dest ...interface{}) error {
	row := f.rows[f.idx-1]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, src := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = src.(string)
		case *int:
			*d = src.(int)
		case *int64:
			*d = src.(int64)
		case *float64:
			*d = src.(float64)
		case *[]byte:
			*d = src.([]byte)
		case *pgvector.Vector:
			*d = src.(pgvector.Vector)
		case *time.Time:
			*d = src.(time.Time)
		default:
			return errors.New("unsupported scan destination")
		}
	}
	return nil
}

func (f *fakeRows) Err() error { return f.err }
func (f *fakeRows) Close()     {}

func TestScanGalleryRecords(t *testing.T) {
	personality := domain.PersonalityProfile{
		Energy:          80,
		Friendliness:    90,
		Creativity:      40,
		Confidence:      70,
		DominantStyle:   domain.StyleCasual,
		DominantEmotion: domain.EmotionHappy,
		Accessories:     []string{"cap"},
		SpecialFeatures: []string{"dimples"},
	}
	payload, err := json.Marshal(personality)
	if err != nil {
		t.Fatalf("marshal personality: %v", err)
	}
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	embedding := pgvector.NewVector([]float32{80, 90, 40, 70})

	rows := &fakeRows{rows: [][]interface{}{
		{"id-1", "Luna", 29, 170, 64, "", "https://img/1.png", 0.04, "dall-e-3", "comic", payload, embedding, created},
	}}

	recs, err := scanGalleryRecords(rows)
	if err != nil {
		t.Fatalf("scanGalleryRecords: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Name != "Luna" || rec.Age != 29 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Style != domain.CartoonComic {
		t.Fatalf("expected comic style, got %s", rec.Style)
	}
	if rec.Personality.DominantEmotion != domain.EmotionHappy {
		t.Fatalf("personality not decoded: %+v", rec.Personality)
	}
	if len(rec.Embedding.Slice()) != 4 {
		t.Fatalf("embedding not decoded: %+v", rec.Embedding)
	}
}

func TestScanGalleryRecordsPropagatesRowError(t *testing.T) {
	rows := &fakeRows{err: errors.New("connection reset")}
	if _, err := scanGalleryRecords(rows); err == nil {
		t.Fatalf("expected row error to propagate")
	}
}

func TestScanGalleryRecordsEmptyPersonality(t *testing.T) {
	created := time.Now().UTC()
	rows := &fakeRows{rows: [][]interface{}{
		{"id-2", "Marco", 40, 180, 82, "", "https://img/2.png", 0.02, "dall-e-2", "anime", []byte(nil), pgvector.NewVector(nil), created},
	}}
	recs, err := scanGalleryRecords(rows)
	if err != nil {
		t.Fatalf("scanGalleryRecords: %v", err)
	}
	if recs[0].Personality.Energy != 0 {
		t.Fatalf("expected zero personality, got %+v", recs[0].Personality)
	}
}

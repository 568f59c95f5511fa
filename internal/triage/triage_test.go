package triage

import (
	"fmt"
	"strings"
	"testing"

	"github.com/minjae/threadlens/internal/domain"
)

func TestFlatten(t *testing.T) {
	forest := []domain.Comment{
		{ID: "a", Depth: 0, Replies: []domain.Comment{
			{ID: "a1", Depth: 1, Replies: []domain.Comment{
				{ID: "a1a", Depth: 2},
			}},
			{ID: "a2", Depth: 1},
		}},
		{ID: "b", Depth: 0},
	}

	flat := Flatten(forest)

	wantOrder := []string{"a", "a1", "a1a", "a2", "b"}
	if len(flat) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(flat), len(wantOrder))
	}
	for i, want := range wantOrder {
		if flat[i].ID != want {
			t.Errorf("flat[%d].ID = %q, want %q", i, flat[i].ID, want)
		}
		if flat[i].Replies != nil {
			t.Errorf("flat[%d] still has replies", i)
		}
	}
	if flat[2].Depth != 2 {
		t.Errorf("nested depth = %d, want 2", flat[2].Depth)
	}

	// The input forest keeps its structure.
	if len(forest[0].Replies) != 2 {
		t.Error("input forest was mutated")
	}
}

func TestFlattenEmpty(t *testing.T) {
	if flat := Flatten(nil); len(flat) != 0 {
		t.Errorf("len = %d, want 0", len(flat))
	}
}

func TestHeuristicScoreLengthBonus(t *testing.T) {
	long := domain.Comment{Body: strings.Repeat("word ", 25), Score: 3, Depth: 1}
	short := domain.Comment{Body: "word word", Score: 3, Depth: 1}

	if HeuristicScore(&long) < HeuristicScore(&short) {
		t.Error("20+ word comment should not rank below a short one at equal score and depth")
	}

	saturated := domain.Comment{Body: strings.Repeat("word ", 200), Score: 3, Depth: 1}
	if HeuristicScore(&saturated) != HeuristicScore(&long) {
		t.Error("length bonus should saturate at 20 words")
	}
}

func TestHeuristicScoreDepthPenaltyCaps(t *testing.T) {
	body := strings.Repeat("word ", 25)
	deep := domain.Comment{Body: body, Depth: 10}
	deeper := domain.Comment{Body: body, Depth: 20}

	if HeuristicScore(&deep) != HeuristicScore(&deeper) {
		t.Error("depth penalty should cap at 50%")
	}

	shallow := domain.Comment{Body: body, Depth: 0}
	if HeuristicScore(&shallow) <= HeuristicScore(&deep) {
		t.Error("shallow comment should outrank deep one")
	}
}

func TestHeuristicScoreUpvotes(t *testing.T) {
	body := strings.Repeat("word ", 25)
	popular := domain.Comment{Body: body, Score: 900}
	ignored := domain.Comment{Body: body, Score: 0}

	diff := HeuristicScore(&popular) - HeuristicScore(&ignored)
	if diff < 0.89 || diff > 0.91 {
		t.Errorf("score contribution = %v, want 0.9", diff)
	}
}

func TestPreFilter(t *testing.T) {
	comments := make([]domain.Comment, 50)
	for i := range comments {
		comments[i] = domain.Comment{
			ID:    fmt.Sprintf("c%d", i),
			Body:  strings.Repeat("word ", 25),
			Score: i,
		}
	}

	kept := PreFilter(comments, 10)
	if len(kept) != 10 {
		t.Fatalf("len = %d, want 10", len(kept))
	}
	// Highest scores first.
	if kept[0].ID != "c49" || kept[9].ID != "c40" {
		t.Errorf("kept = %q..%q, want c49..c40", kept[0].ID, kept[9].ID)
	}
}

func TestPreFilterStableTies(t *testing.T) {
	comments := []domain.Comment{
		{ID: "first", Body: "same body here", Score: 5},
		{ID: "second", Body: "same body here", Score: 5},
		{ID: "third", Body: "same body here", Score: 5},
	}

	kept := PreFilter(comments, 2)
	if kept[0].ID != "first" || kept[1].ID != "second" {
		t.Errorf("ties not stable: %q, %q", kept[0].ID, kept[1].ID)
	}
}

func TestPreFilterNoCap(t *testing.T) {
	comments := []domain.Comment{{ID: "a"}, {ID: "b"}}
	if kept := PreFilter(comments, 0); len(kept) != 2 {
		t.Errorf("len = %d, want all comments with no cap", len(kept))
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		n         int
		batchSize int
		wantSizes []int
	}{
		{0, 20, nil},
		{5, 20, []int{5}},
		{20, 20, []int{20}},
		{45, 20, []int{20, 20, 5}},
		{100, 20, []int{20, 20, 20, 20, 20}},
	}

	for _, tt := range tests {
		comments := make([]domain.Comment, tt.n)
		for i := range comments {
			comments[i] = domain.Comment{ID: fmt.Sprintf("c%d", i)}
		}

		batches := Partition(comments, tt.batchSize)
		if len(batches) != len(tt.wantSizes) {
			t.Errorf("n=%d: batches = %d, want %d", tt.n, len(batches), len(tt.wantSizes))
			continue
		}
		seen := 0
		for i, batch := range batches {
			if len(batch) != tt.wantSizes[i] {
				t.Errorf("n=%d: batch %d size = %d, want %d", tt.n, i, len(batch), tt.wantSizes[i])
			}
			// Contiguity.
			for _, c := range batch {
				if c.ID != fmt.Sprintf("c%d", seen) {
					t.Errorf("n=%d: batch %d not contiguous at %q", tt.n, i, c.ID)
				}
				seen++
			}
		}
	}
}

func TestFilterByQuality(t *testing.T) {
	comments := []domain.EnrichedComment{
		mkEnriched("low", 1.9),
		mkEnriched("edge", 2.0),
		mkEnriched("high", 8.0),
	}

	kept := FilterByQuality(comments, 2.0)
	if len(kept) != 2 {
		t.Fatalf("len = %d, want 2", len(kept))
	}
	if kept[0].ID != "edge" || kept[1].ID != "high" {
		t.Errorf("kept = %q, %q", kept[0].ID, kept[1].ID)
	}
}

func mkEnriched(id string, quality float64) domain.EnrichedComment {
	e := domain.DefaultEnrichedComment(domain.Comment{ID: id})
	e.QualityScore = quality
	return e
}

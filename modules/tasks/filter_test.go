package tasks

import (
	"testing"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SortKey
		wantErr bool
	}{
		{"empty defaults to id", "", SortByID, false},
		{"id", "id", SortByID, false},
		{"title", "title", SortByTitle, false},
		{"priority", "priority", SortByPriority, false},
		{"due date", "due_date", SortByDueDate, false},
		{"created at", "created_at", SortByCreatedAt, false},
		{"unknown key", "owner_id", "", true},
		{"wrong case", "TITLE", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSortKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSortKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPageSpecNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   PageSpec
		want    PageSpec
		wantErr bool
	}{
		{"zero value gets defaults", PageSpec{}, PageSpec{Page: 0, Size: DefaultPageSize, Sort: SortByID}, false},
		{"explicit values kept", PageSpec{Page: 2, Size: 25, Sort: SortByTitle}, PageSpec{Page: 2, Size: 25, Sort: SortByTitle}, false},
		{"negative page rejected", PageSpec{Page: -1, Size: 10}, PageSpec{}, true},
		{"negative size rejected", PageSpec{Page: 0, Size: -5}, PageSpec{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.normalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOrderExprPriorityUsesRank(t *testing.T) {
	expr := SortByPriority.orderExpr()
	if expr == "priority ASC" {
		t.Fatal("priority sort must rank by urgency, not lexically")
	}
}

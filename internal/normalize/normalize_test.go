package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pephaul/orderdesk/internal/normalize"
)

func TestHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "clean",
			in:   []string{"Order ID", "QTY"},
			want: []string{"Order ID", "QTY"},
		},
		{
			name: "blank_first_column",
			in:   []string{"", "Order Date", "QTY"},
			want: []string{"Order ID", "Order Date", "QTY"},
		},
		{
			name: "blank_middle_columns",
			in:   []string{"Order ID", "", "QTY", "  "},
			want: []string{"Order ID", "Unnamed_1", "QTY", "Unnamed_3"},
		},
		{
			name: "whitespace_trimmed",
			in:   []string{" Order ID ", "QTY "},
			want: []string{"Order ID", "QTY"},
		},
		{
			name: "empty",
			in:   []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.Headers(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, normalize.Headers(got), "must be idempotent")
		})
	}
}

func TestRecord(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]string
		want map[string]string
	}{
		{
			name: "blank_key_becomes_order_id",
			in:   map[string]string{"": "ORD-123", "QTY": "2"},
			want: map[string]string{"Order ID": "ORD-123", "QTY": "2"},
		},
		{
			name: "keys_trimmed",
			in:   map[string]string{" QTY ": "2"},
			want: map[string]string{"QTY": "2"},
		},
		{
			name: "collision_non_empty_wins",
			in:   map[string]string{"QTY": "", " QTY": "5"},
			want: map[string]string{"QTY": "5"},
		},
		{
			name: "collision_both_non_empty_keeps_one",
			in:   map[string]string{"Order ID": "ORD-1", " Order ID": "ORD-1"},
			want: map[string]string{"Order ID": "ORD-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.Record(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, normalize.Record(got), "must be idempotent")
		})
	}
}

func TestRecordsFromGrid(t *testing.T) {
	grid := [][]string{
		{"", "Order Date", "QTY"},
		{"ORD-1", "2025-06-01", "2"},
		{"ORD-2", "2025-06-02"}, // short row: missing cells padded blank
	}

	records := normalize.RecordsFromGrid(grid)
	assert.Len(t, records, 2)
	assert.Equal(t, "ORD-1", records[0]["Order ID"])
	assert.Equal(t, "2", records[0]["QTY"])
	assert.Equal(t, "ORD-2", records[1]["Order ID"])
	assert.Equal(t, "", records[1]["QTY"])
}

func TestRecordsFromGrid_Empty(t *testing.T) {
	assert.Nil(t, normalize.RecordsFromGrid(nil))
	assert.Empty(t, normalize.RecordsFromGrid([][]string{{"Order ID"}}))
}

package postgres

import (
	"reflect"
	"testing"
)

func TestBatchRanges(t *testing.T) {
	got, err := batchRanges(6, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []batchRange{
		{From: 0, To: 2},
		{From: 2, To: 4},
		{From: 4, To: 6},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}
}

func TestBatchRangesRemainder(t *testing.T) {
	got, err := batchRanges(5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []batchRange{{From: 0, To: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}

	got, err = batchRanges(0, 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no ranges for no items, got %+v (%v)", got, err)
	}
}

func TestBatchRangesInvalid(t *testing.T) {
	if _, err := batchRanges(-1, 1); err == nil {
		t.Fatalf("expected error for negative count")
	}
	if _, err := batchRanges(10, 0); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
}

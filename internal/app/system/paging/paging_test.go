package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/x", 1},
		{"/x?start=26", 26},
		{"/x?start=0", 1},
		{"/x?start=-3", 1},
		{"/x?start=abc", 1},
	}
	for _, tt := range tests {
		got := ParseStart(httptest.NewRequest("GET", tt.url, nil))
		if got != tt.want {
			t.Errorf("ParseStart(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestSlice(t *testing.T) {
	rows := make([]int, 60)
	for i := range rows {
		rows[i] = i + 1
	}

	page, rng := Slice(rows, 1)
	if len(page) != PageSize || page[0] != 1 {
		t.Fatalf("first page = %v", page)
	}
	if rng.HasPrev || !rng.HasNext || rng.NextStart != PageSize+1 || rng.Total != 60 {
		t.Errorf("first range = %+v", rng)
	}

	page, rng = Slice(rows, 51)
	if len(page) != 10 || page[0] != 51 || page[9] != 60 {
		t.Fatalf("last page = %v", page)
	}
	if !rng.HasPrev || rng.HasNext || rng.PrevStart != 26 || rng.End != 60 {
		t.Errorf("last range = %+v", rng)
	}
}

func TestSlice_StartPastEndClampsToLastPage(t *testing.T) {
	rows := make([]int, 30)
	page, rng := Slice(rows, 500)
	if len(page) != 5 || rng.Start != 26 {
		t.Errorf("got %d rows, range %+v", len(page), rng)
	}
}

func TestSlice_Empty(t *testing.T) {
	page, rng := Slice([]string(nil), 1)
	if len(page) != 0 {
		t.Errorf("page = %v", page)
	}
	if rng.Start != 0 || rng.End != 0 || rng.HasNext || rng.HasPrev {
		t.Errorf("range = %+v", rng)
	}
}

func TestComputeRange(t *testing.T) {
	got := ComputeRange(26, 25, 80)
	want := Range{Start: 26, End: 50, Total: 80, HasPrev: true, HasNext: true, PrevStart: 1, NextStart: 51}
	if got != want {
		t.Errorf("ComputeRange = %+v, want %+v", got, want)
	}
}

func TestLink(t *testing.T) {
	r := httptest.NewRequest("GET", "/dashboard/admin/users?q=ada&start=26", nil)
	if got := Link(r, "/dashboard/admin/users", 51); got != "/dashboard/admin/users?q=ada&start=51" {
		t.Errorf("Link next = %q", got)
	}
	if got := Link(r, "/dashboard/admin/users", 1); got != "/dashboard/admin/users?q=ada" {
		t.Errorf("Link first = %q", got)
	}
}

package paging

import (
	"fmt"
	"testing"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, pages int
	}{
		{0, 100, 0},
		{1, 100, 1},
		{100, 100, 1},
		{101, 100, 2},
		{250, 100, 3},
		{-5, 100, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.size), func(t *testing.T) {
			p := New(tt.size)
			p.SetTotal(tt.total)
			if got := p.TotalPages(); got != tt.pages {
				t.Errorf("TotalPages() = %d, want %d", got, tt.pages)
			}
		})
	}
}

func TestNextPrevBounds(t *testing.T) {
	p := New(100)
	p.SetTotal(250)

	if p.Prev() {
		t.Error("Prev() on page 1 should be a no-op")
	}
	if p.CurrentPage() != 1 {
		t.Fatalf("CurrentPage() = %d, want 1", p.CurrentPage())
	}

	if !p.Next() || !p.Next() {
		t.Fatal("expected to reach page 3")
	}
	if p.Next() {
		t.Error("Next() on the last page should be a no-op")
	}
	if p.CurrentPage() != 3 {
		t.Errorf("CurrentPage() = %d, want 3", p.CurrentPage())
	}
	if p.Offset() != 200 {
		t.Errorf("Offset() = %d, want 200", p.Offset())
	}

	if !p.Prev() || p.CurrentPage() != 2 {
		t.Errorf("Prev() should move back to page 2, got %d", p.CurrentPage())
	}
}

func TestEmptyTotal(t *testing.T) {
	p := New(100)
	p.SetTotal(0)

	if p.CurrentPage() != 0 || p.TotalPages() != 0 {
		t.Errorf("expected page 0 of 0, got %d of %d", p.CurrentPage(), p.TotalPages())
	}
	if p.Next() || p.Prev() {
		t.Error("navigation must be a no-op without results")
	}
	if p.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", p.Offset())
	}
	if got := p.String(); got != "Page 0 of 0" {
		t.Errorf("String() = %q", got)
	}
}

func TestSetTotalClampsPage(t *testing.T) {
	p := New(10)
	p.SetTotal(100)
	for p.Next() {
	}
	if p.CurrentPage() != 10 {
		t.Fatalf("CurrentPage() = %d, want 10", p.CurrentPage())
	}

	p.SetTotal(35)
	if p.CurrentPage() != 4 {
		t.Errorf("CurrentPage() after shrinking = %d, want 4", p.CurrentPage())
	}
}

func TestReset(t *testing.T) {
	p := New(100)
	p.SetTotal(500)
	p.Next()
	p.Reset()

	if p.Offset() != 0 || p.Total() != 0 {
		t.Errorf("Reset() left offset=%d total=%d", p.Offset(), p.Total())
	}
}

func TestGoto(t *testing.T) {
	tests := []struct {
		total    int
		target   int
		expected int
	}{
		{250, 2, 2},
		{250, 9, 3},
		{250, -4, 1},
		{0, 5, 0},
	}

	for _, tt := range tests {
		p := New(100)
		p.SetTotal(tt.total)
		p.Goto(tt.target)
		if got := p.CurrentPage(); got != tt.expected {
			t.Errorf("total=%d Goto(%d): page %d, want %d", tt.total, tt.target, got, tt.expected)
		}
	}
}

func TestDefaultPageSize(t *testing.T) {
	if New(0).PageSize() != DefaultPageSize {
		t.Errorf("expected default page size %d", DefaultPageSize)
	}
}

func ExamplePaginator() {
	p := New(100)
	p.SetTotal(250)
	p.Next()

	fmt.Println(p)
	fmt.Println("Offset:", p.Offset())

	// Output:
	// Page 2 of 3 (101-200 of 250)
	// Offset: 100
}

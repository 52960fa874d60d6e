package cache

import (
	"fmt"
	"testing"

	"webready/internal/analyzer"
)

func result(name string) *analyzer.ProjectResult {
	return &analyzer.ProjectResult{ProjectName: name}
}

func TestCacheAddGet(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Add("job-1", result("demo"))

	got, ok := c.Get("job-1")
	if !ok || got.ProjectName != "demo" {
		t.Errorf("Get = %+v, %v", got, ok)
	}
	if _, ok := c.Get("job-2"); ok {
		t.Error("unexpected hit for unknown id")
	}
}

func TestCacheRemove(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Add("job-1", result("demo"))
	c.Remove("job-1")
	if _, ok := c.Get("job-1"); ok {
		t.Error("entry survived Remove")
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("job-%d", i)
		c.Add(id, result(id))
	}

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("job-0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get("job-2"); !ok {
		t.Error("newest entry missing")
	}
}

func TestCacheDefaultSize(t *testing.T) {
	c, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Add("job-1", result("demo"))
	if _, ok := c.Get("job-1"); !ok {
		t.Error("cache with default size should store entries")
	}
}

package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Società di Scherma Milano", "societa-di-scherma-milano"},
		{"Sala d'Arme", "sala-d-arme"},
		{"  Spazi   multipli  ", "spazi-multipli"},
		{"HEMA Club 2024", "hema-club-2024"},
		{"Überlingen Fechtschule", "uberlingen-fechtschule"},
		{"---", ""},
		{"", ""},
		{"àèìòù", "aeiou"},
	}
	for _, c := range cases {
		if got := Make(c.in); got != c.want {
			t.Errorf("Make(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMakeShape(t *testing.T) {
	shape := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	inputs := []string{"Accademia Romana", "A.S.D. L'Arte della Spada", "étude 42", "x"}
	for _, in := range inputs {
		got := Make(in)
		if got == "" {
			t.Fatalf("Make(%q) unexpectedly empty", in)
		}
		if !shape.MatchString(got) {
			t.Errorf("Make(%q) = %q, not slug-shaped", in, got)
		}
	}
}

// takenSet backs an ExistsFunc with a fixed set of occupied slugs.
func takenSet(slugs ...string) ExistsFunc {
	set := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		set[s] = true
	}
	return func(_ context.Context, s string) (bool, error) {
		return set[s], nil
	}
}

func TestAllocateFree(t *testing.T) {
	a := NewAllocator(takenSet())
	got, err := a.Allocate(context.Background(), "Sala d'Arme Bologna")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got != "sala-d-arme-bologna" {
		t.Errorf("got %q", got)
	}
}

func TestAllocateSuffixes(t *testing.T) {
	a := NewAllocator(takenSet("club", "club-1"))
	got, err := a.Allocate(context.Background(), "Club")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got != "club-2" {
		t.Errorf("got %q, want club-2", got)
	}
}

func TestAllocateEmptyNameFallsBackToTimestamp(t *testing.T) {
	a := NewAllocator(takenSet())
	a.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	got, err := a.Allocate(context.Background(), "!!!")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got != "1700000000000" {
		t.Errorf("got %q", got)
	}
}

func TestAllocateExhaustionFallsBackToTimestamp(t *testing.T) {
	all := func(_ context.Context, _ string) (bool, error) { return true, nil }
	a := NewAllocator(all)
	a.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	got, err := a.Allocate(context.Background(), "Club")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got != "club-1700000000000" {
		t.Errorf("got %q", got)
	}
}

func TestAllocateCapsProbeCount(t *testing.T) {
	probes := 0
	all := func(_ context.Context, _ string) (bool, error) {
		probes++
		return true, nil
	}
	a := NewAllocator(all)
	if _, err := a.Allocate(context.Background(), "Club"); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if probes != 50 {
		t.Errorf("probes = %d, want 50", probes)
	}
}

func TestAllocateProbeError(t *testing.T) {
	boom := errors.New("db down")
	a := NewAllocator(func(_ context.Context, _ string) (bool, error) { return false, boom })
	if _, err := a.Allocate(context.Background(), "Club"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped probe error, got %v", err)
	}
}

func TestIsDuplicate(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{errors.New(`pq: duplicate key value violates unique constraint "idx_societies_slug"`), true},
		{errors.New("UNIQUE constraint failed: societies.slug"), true},
		{errors.New("connection refused"), false},
	}
	for _, c := range cases {
		if got := IsDuplicate(c.err); got != c.want {
			t.Errorf("IsDuplicate(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

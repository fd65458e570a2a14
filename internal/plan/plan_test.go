// internal/plan/plan_test.go
//
// Unit-tests for the tier catalog.
//
// Run: go test ./internal/plan -v

package plan

import "testing"

func TestGet_KnownTiers(t *testing.T) {
	cases := []struct {
		key      Type
		days     int
		guests   int
		features int
	}{
		{Basic, 30, 50, 4},
		{Premium, 60, 100, 6},
		{Deluxe, 90, 200, 8},
	}
	for _, c := range cases {
		p := Get(c.key)
		if p.DurationDays != c.days {
			t.Errorf("%s: DurationDays = %d, want %d", c.key, p.DurationDays, c.days)
		}
		if p.MaxGuests != c.guests {
			t.Errorf("%s: MaxGuests = %d, want %d", c.key, p.MaxGuests, c.guests)
		}
		if len(p.Features) != c.features {
			t.Errorf("%s: len(Features) = %d, want %d", c.key, len(p.Features), c.features)
		}
	}
}

func TestGet_UnknownFallsBackToBasic(t *testing.T) {
	p := Get(Type("platinum"))
	if p.Name != "Básico" {
		t.Fatalf("unknown tier resolved to %q, want basic", p.Name)
	}
}

func TestGet_FeaturesAreACopy(t *testing.T) {
	p := Get(Premium)
	p.Features[0] = "mutated"

	again := Get(Premium)
	if again.Features[0] == "mutated" {
		t.Fatal("Get leaked a live reference to the catalog feature list")
	}
}

func TestValid(t *testing.T) {
	if !Premium.Valid() {
		t.Error("premium should be valid")
	}
	if Type("gold").Valid() {
		t.Error("gold should not be valid")
	}
}

package gallery

import "testing"

func TestOccasionKind(t *testing.T) {
	tests := []struct {
		occasion string
		want     string
		ok       bool
	}{
		{OccasionBirthday, KindEmployee, true},
		{OccasionWorkAnniversary, KindEmployee, true},
		{OccasionFestival, KindOccasion, true},
		{OccasionHoliday, KindOccasion, true},
		{"", KindOccasion, true},
		{"april_fools", "", false},
	}
	for _, tc := range tests {
		kind, ok := OccasionKind(tc.occasion)
		if ok != tc.ok || kind != tc.want {
			t.Fatalf("OccasionKind(%q) = %q, %v; want %q, %v", tc.occasion, kind, ok, tc.want, tc.ok)
		}
	}
}

func TestOccasionsReturnsCopy(t *testing.T) {
	m := Occasions()
	m[OccasionBirthday] = "mutated"
	if kind, _ := OccasionKind(OccasionBirthday); kind != KindEmployee {
		t.Fatal("mutating the returned map must not affect the tag set")
	}
}

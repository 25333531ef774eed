package intelligence

import (
	"testing"

	"frontdesk/models"
)

func TestMatchConsultant_FirstContainingEntryWins(t *testing.T) {
	c, found, exact := MatchConsultant(testRoster, "CARLOS")
	if !found || c.ID != "1" || exact {
		t.Fatalf("expected non-exact match on 1, got %+v found=%v exact=%v", c, found, exact)
	}

	c, found, exact = MatchConsultant(testRoster, "mayaudon")
	if !found || c.ID != "3" {
		t.Fatalf("expected match on 3, got %+v found=%v", c, found)
	}
	if exact {
		t.Fatalf("expected substring match not to be exact")
	}

	c, found, exact = MatchConsultant(testRoster, "  dra. ana lópez ")
	if !found || c.ID != "2" || !exact {
		t.Fatalf("expected exact match on 2, got %+v found=%v exact=%v", c, found, exact)
	}
}

func TestMatchConsultant_NoMatch(t *testing.T) {
	if _, found, _ := MatchConsultant(testRoster, "Gómez"); found {
		t.Fatalf("expected no match")
	}
	if _, found, _ := MatchConsultant(testRoster, ""); found {
		t.Fatalf("expected empty name not to match")
	}
	if _, found, _ := MatchConsultant(nil, "Carlos"); found {
		t.Fatalf("expected empty roster not to match")
	}
}

func TestMatchConsultant_RosterOrderMatters(t *testing.T) {
	roster := []models.Consultant{testRoster[2], testRoster[0], testRoster[1]}
	c, _, _ := MatchConsultant(roster, "carlos")
	if c.ID != "3" {
		t.Fatalf("expected first entry in the given order (3), got %s", c.ID)
	}
}

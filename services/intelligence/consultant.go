package intelligence

import (
	"strings"

	"frontdesk/models"
)

// MatchConsultant returns the first roster entry whose name contains spoken,
// ignoring case. Roster order decides between several candidates. exact is
// true only when the names are equal ignoring case and surrounding spaces.
func MatchConsultant(roster []models.Consultant, spoken string) (c models.Consultant, found, exact bool) {
	needle := strings.ToLower(strings.TrimSpace(spoken))
	if needle == "" {
		return models.Consultant{}, false, false
	}
	for _, entry := range roster {
		name := strings.ToLower(strings.TrimSpace(entry.Name))
		if strings.Contains(name, needle) {
			return entry, true, name == needle
		}
	}
	return models.Consultant{}, false, false
}

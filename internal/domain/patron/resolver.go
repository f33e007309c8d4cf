package patron

import "strings"

type ResolutionOutcome int

const (
	ResolutionNotFound ResolutionOutcome = iota
	ResolutionFound
	ResolutionAmbiguous
)

// Resolution is the three-way outcome of a name search. Candidates is
// populated only for the ambiguous case.
type Resolution struct {
	Outcome    ResolutionOutcome
	Patron     *Patron
	Candidates []*Patron
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ResolveByName implements the tiered disambiguation contract: exact
// matches (normalized equality) always win over partial matches
// (normalized substring), regardless of how many of either exist.
// A single match at the winning tier resolves; more than one is
// ambiguous and the caller must disambiguate by identifier.
func ResolveByName(query string, patrons []*Patron) Resolution {
	normalized := normalizeName(query)
	if normalized == "" {
		return Resolution{Outcome: ResolutionNotFound}
	}

	var exact, partial []*Patron
	for _, p := range patrons {
		name := normalizeName(p.Name)
		if name == normalized {
			exact = append(exact, p)
		} else if strings.Contains(name, normalized) {
			partial = append(partial, p)
		}
	}

	switch {
	case len(exact) == 1:
		return Resolution{Outcome: ResolutionFound, Patron: exact[0]}
	case len(exact) > 1:
		return Resolution{Outcome: ResolutionAmbiguous, Candidates: exact}
	case len(partial) == 1:
		return Resolution{Outcome: ResolutionFound, Patron: partial[0]}
	case len(partial) > 1:
		return Resolution{Outcome: ResolutionAmbiguous, Candidates: partial}
	default:
		return Resolution{Outcome: ResolutionNotFound}
	}
}

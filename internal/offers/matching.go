package offers

import (
	"sort"
	"strings"

	"talentbridge/offers-service/internal/model"
)

// IsEligible returns true when a candidate may receive an offer for a job
// in the given domain: the candidate must be available and their domain
// must match the job's domain under case-insensitive comparison.
//
// Called before every offer insert — if false, the candidate is skipped.
func IsEligible(c model.Candidate, jobDomain string) bool {
	if c.Availability != model.AvailabilityAvailable {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(c.Domain), strings.TrimSpace(jobDomain))
}

// PlanOffers selects up to remaining candidates to receive offers for a
// job in the given domain.
//
// Candidates are considered in ascending id order so allocation is
// deterministic regardless of the order the store returned them in.
// Eligibility is re-checked here on every row rather than trusted from the
// query that produced it. A candidate is skipped when an offer already
// exists for them on this job (alreadyOffered, keyed by candidate id) or
// when they have no deliverable contact address. Planning stops as soon as
// remaining offers have been picked: offers sent but not yet answered
// still hold a slot for the duration of the batch, so a single call never
// plans past capacity.
func PlanOffers(remaining int, jobDomain string, candidates []model.Candidate, alreadyOffered map[string]bool) []model.Candidate {
	if remaining <= 0 {
		return nil
	}

	ordered := make([]model.Candidate, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	picked := make([]model.Candidate, 0, remaining)
	for _, c := range ordered {
		if len(picked) == remaining {
			break
		}
		if !IsEligible(c, jobDomain) {
			continue
		}
		if alreadyOffered[c.ID] {
			continue
		}
		if c.ContactEmail == "" || !c.EmailVerified {
			continue
		}
		picked = append(picked, c)
	}
	return picked
}

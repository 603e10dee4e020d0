package offers_test

import (
	"testing"

	"talentbridge/offers-service/internal/model"
	"talentbridge/offers-service/internal/offers"
)

func candidate(id, domain, availability string) model.Candidate {
	return model.Candidate{
		ID:            id,
		Domain:        domain,
		Availability:  availability,
		ContactEmail:  id + "@example.com",
		EmailVerified: true,
	}
}

// ── IsEligible ─────────────────────────────────────────────────────────────

// Domain matching must be case-insensitive: "web development" matches
// "Web Development".
func TestIsEligible_DomainCaseInsensitive(t *testing.T) {
	c := candidate("c1", "web development", model.AvailabilityAvailable)
	if !offers.IsEligible(c, "Web Development") {
		t.Error("IsEligible should match domains case-insensitively")
	}
}

func TestIsEligible_DomainMismatch(t *testing.T) {
	c := candidate("c1", "Design", model.AvailabilityAvailable)
	if offers.IsEligible(c, "Web Development") {
		t.Error("IsEligible should reject a different domain")
	}
}

func TestIsEligible_NotAvailable(t *testing.T) {
	for _, availability := range []string{
		model.AvailabilityNotAvailable,
		model.AvailabilityEmployed,
	} {
		c := candidate("c1", "Web Development", availability)
		if offers.IsEligible(c, "Web Development") {
			t.Errorf("IsEligible should reject availability %q", availability)
		}
	}
}

// Candidates A (matching domain, lowercase), B (employed), C (other domain):
// only A is eligible.
func TestIsEligible_MixedPool(t *testing.T) {
	jobDomain := "Web Development"
	a := candidate("a", "web development", model.AvailabilityAvailable)
	b := candidate("b", "Web Development", model.AvailabilityEmployed)
	c := candidate("c", "Design", model.AvailabilityAvailable)

	if !offers.IsEligible(a, jobDomain) {
		t.Error("candidate A should be eligible")
	}
	if offers.IsEligible(b, jobDomain) {
		t.Error("candidate B should be filtered by availability")
	}
	if offers.IsEligible(c, jobDomain) {
		t.Error("candidate C should be filtered by domain")
	}
}

// ── PlanOffers ─────────────────────────────────────────────────────────────

func TestPlanOffers_StopsAtRemaining(t *testing.T) {
	pool := []model.Candidate{
		candidate("c1", "Web Development", model.AvailabilityAvailable),
		candidate("c2", "Web Development", model.AvailabilityAvailable),
		candidate("c3", "Web Development", model.AvailabilityAvailable),
	}
	picked := offers.PlanOffers(2, "Web Development", pool, nil)
	if len(picked) != 2 {
		t.Fatalf("PlanOffers with remaining=2 picked %d candidates, want 2", len(picked))
	}
}

func TestPlanOffers_ZeroRemaining(t *testing.T) {
	pool := []model.Candidate{
		candidate("c1", "Web Development", model.AvailabilityAvailable),
	}
	if picked := offers.PlanOffers(0, "Web Development", pool, nil); picked != nil {
		t.Errorf("PlanOffers with remaining=0 should pick nothing, got %d", len(picked))
	}
	if picked := offers.PlanOffers(-1, "Web Development", pool, nil); picked != nil {
		t.Errorf("PlanOffers with negative remaining should pick nothing, got %d", len(picked))
	}
}

// A second planning round over the same pool must skip candidates who
// already hold an offer — never a second offer for the same candidate.
func TestPlanOffers_SkipsAlreadyOffered(t *testing.T) {
	pool := []model.Candidate{
		candidate("c1", "Web Development", model.AvailabilityAvailable),
		candidate("c2", "Web Development", model.AvailabilityAvailable),
	}

	first := offers.PlanOffers(1, "Web Development", pool, nil)
	if len(first) != 1 || first[0].ID != "c1" {
		t.Fatalf("first round should pick c1, got %+v", first)
	}

	second := offers.PlanOffers(1, "Web Development", pool, map[string]bool{"c1": true})
	if len(second) != 1 || second[0].ID != "c2" {
		t.Fatalf("second round should pick c2, got %+v", second)
	}
}

func TestPlanOffers_SkipsUndeliverable(t *testing.T) {
	noEmail := candidate("c1", "Web Development", model.AvailabilityAvailable)
	noEmail.ContactEmail = ""

	unverified := candidate("c2", "Web Development", model.AvailabilityAvailable)
	unverified.EmailVerified = false

	ok := candidate("c3", "Web Development", model.AvailabilityAvailable)

	picked := offers.PlanOffers(3, "Web Development", []model.Candidate{noEmail, unverified, ok}, nil)
	if len(picked) != 1 || picked[0].ID != "c3" {
		t.Fatalf("only the deliverable candidate should be picked, got %+v", picked)
	}
}

// Selection must be deterministic: ascending candidate id, regardless of
// input order.
func TestPlanOffers_DeterministicOrder(t *testing.T) {
	pool := []model.Candidate{
		candidate("c3", "Web Development", model.AvailabilityAvailable),
		candidate("c1", "Web Development", model.AvailabilityAvailable),
		candidate("c2", "Web Development", model.AvailabilityAvailable),
	}
	picked := offers.PlanOffers(2, "Web Development", pool, nil)
	if len(picked) != 2 || picked[0].ID != "c1" || picked[1].ID != "c2" {
		t.Fatalf("expected [c1 c2], got %+v", picked)
	}
}

func TestPlanOffers_DoesNotMutateInput(t *testing.T) {
	pool := []model.Candidate{
		candidate("c2", "Web Development", model.AvailabilityAvailable),
		candidate("c1", "Web Development", model.AvailabilityAvailable),
	}
	offers.PlanOffers(2, "Web Development", pool, nil)
	if pool[0].ID != "c2" {
		t.Error("PlanOffers must not reorder the caller's slice")
	}
}

// A mixed pool against a 2-opening job: the lowercase-domain candidate gets
// the single offer; the employed and off-domain candidates are filtered by
// the planner itself.
func TestPlanOffers_FiltersIneligible(t *testing.T) {
	pool := []model.Candidate{
		candidate("a", "web development", model.AvailabilityAvailable),
		candidate("b", "Web Development", model.AvailabilityEmployed),
		candidate("c", "Design", model.AvailabilityAvailable),
	}
	picked := offers.PlanOffers(2, "Web Development", pool, nil)
	if len(picked) != 1 || picked[0].ID != "a" {
		t.Fatalf("expected only candidate a, got %+v", picked)
	}
}

// ── Remaining ──────────────────────────────────────────────────────────────

func TestRemaining(t *testing.T) {
	cases := []struct {
		openings, accepted, want int
	}{
		{1, 0, 1},
		{1, 1, 0},
		{5, 2, 3},
		{1, 2, 0}, // floored, never negative
	}
	for _, c := range cases {
		if got := offers.Remaining(c.openings, c.accepted); got != c.want {
			t.Errorf("Remaining(%d, %d) = %d, want %d", c.openings, c.accepted, got, c.want)
		}
	}
}

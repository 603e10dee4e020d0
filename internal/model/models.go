// Package model defines shared data structures for the offers service.
package model

import "time"

// Availability values mirror the availability_status enum in PostgreSQL.
const (
	AvailabilityAvailable    = "available"
	AvailabilityNotAvailable = "not_available"
	AvailabilityEmployed     = "employed"
)

// Job mirrors a jobs table row. Openings bounds how many offers may ever
// reach ACCEPTED status for this job.
type Job struct {
	ID         string     `json:"id"`
	EmployerID string     `json:"employerId"`
	Title      string     `json:"title"`
	Domain     string     `json:"domain"`
	Openings   int        `json:"openings"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Candidate mirrors a candidates table row.
type Candidate struct {
	ID            string   `json:"id"`
	UserID        string   `json:"userId"`
	Domain        string   `json:"domain"`
	Availability  string   `json:"availabilityStatus"`
	Skills        []string `json:"skills"`
	ContactEmail  string   `json:"contactEmail"`
	EmailVerified bool     `json:"emailVerified"`
}

// Offer is an employer-initiated, capacity-bounded proposal sent to one
// candidate for one job. At most one offer exists per
// (job, candidate, employer) triple.
type Offer struct {
	ID          string     `json:"id"`
	JobID       string     `json:"jobId"`
	EmployerID  string     `json:"employerId"`
	CandidateID string     `json:"candidateId"`
	Status      string     `json:"status"`
	SentAt      time.Time  `json:"sentAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	NotifiedAt  *time.Time `json:"notifiedAt,omitempty"`
}

// Application is a candidate-initiated request to be considered for a job,
// independent of the offer pipeline. At most one application exists per
// (job, candidate) pair.
type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	CandidateID string    `json:"candidateId"`
	Status      string    `json:"status"`
	CoverLetter string    `json:"coverLetter"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// JobCapacity is the read model returned by the capacity endpoint.
// Accepted is always derived from offer rows, never a cached counter.
type JobCapacity struct {
	Openings  int `json:"openings"`
	Accepted  int `json:"accepted"`
	Remaining int `json:"remaining"`
}

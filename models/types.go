package models

import (
	"time"

	"github.com/danielhkuo/eboto/election"
)

// Publicity levels
const (
	PublicityPrivate    = "PRIVATE"
	PublicityVotersOnly = "VOTERS_ONLY"
	PublicityPublic     = "PUBLIC"
)

// Row status constants
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Default partylist created with every election
const (
	DefaultPartylistName         = "Independent"
	DefaultPartylistAbbreviation = "IND"
)

// Request types

type CreateElectionRequest struct {
	Name            string `json:"name" validate:"required,min=3,max=100"`
	Slug            string `json:"slug" validate:"required"`
	Description     string `json:"description" validate:"max=1000"`
	Publicity       string `json:"publicity" validate:"omitempty,oneof=PRIVATE VOTERS_ONLY PUBLIC"`
	StartDate       Date   `json:"start_date" validate:"required"`
	EndDate         Date   `json:"end_date" validate:"required"`
	VotingStartHour *int   `json:"voting_start" validate:"required"`
	VotingEndHour   *int   `json:"voting_end" validate:"required"`
}

// Nil fields are left unchanged.
type UpdateElectionSettingsRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=3,max=100"`
	Slug            *string `json:"slug"`
	Description     *string `json:"description" validate:"omitempty,max=1000"`
	Publicity       *string `json:"publicity" validate:"omitempty,oneof=PRIVATE VOTERS_ONLY PUBLIC"`
	StartDate       *Date   `json:"start_date"`
	EndDate         *Date   `json:"end_date"`
	VotingStartHour *int    `json:"voting_start"`
	VotingEndHour   *int    `json:"voting_end"`
}

// Min and Max default to 0 and 1, a single optional choice.
type CreatePositionRequest struct {
	Name string `json:"name" validate:"required"`
	Min  *int   `json:"min"`
	Max  *int   `json:"max"`
}

type UpdatePositionRequest struct {
	Name *string `json:"name"`
	Min  *int    `json:"min"`
	Max  *int    `json:"max"`
}

type CreatePartylistRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=50"`
	Abbreviation string `json:"abbreviation" validate:"required,min=1,max=24"`
}

type CreateCandidateRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	MiddleName  string `json:"middle_name" validate:"max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"required"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	PositionID  string `json:"position_id" validate:"required"`
	PartylistID string `json:"partylist_id"`
}

type AddVoterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// position_id -> candidate ids
type SubmitBallotRequest struct {
	Selections map[string][]string `json:"selections" validate:"required"`
}

// Response types

type CreateElectionResponse struct {
	Election Election `json:"election"`
	AdminKey string   `json:"admin_key"`
}

type ElectionStatus struct {
	Phase      election.Phase `json:"phase"`
	Ongoing    bool           `json:"ongoing"`
	VotingOpen bool           `json:"voting_open"`
	NextOpen   *time.Time     `json:"next_open,omitempty"`
	Message    string         `json:"message"`
}

type ElectionPageResponse struct {
	Election   Election       `json:"election"`
	Status     ElectionStatus `json:"status"`
	Positions  []Position     `json:"positions"`
	Partylists []Partylist    `json:"partylists"`
	Candidates []Candidate    `json:"candidates"`
}

type AddVoterResponse struct {
	Voter      Voter  `json:"voter"`
	VoterToken string `json:"voter_token"`
}

// SingleChoice positions render as radio buttons, the rest as checkboxes.
type BallotPosition struct {
	Position     Position    `json:"position"`
	SingleChoice bool        `json:"single_choice"`
	Candidates   []Candidate `json:"candidates"`
}

type BallotResponse struct {
	Election  Election         `json:"election"`
	Status    ElectionStatus   `json:"status"`
	HasVoted  bool             `json:"has_voted"`
	Positions []BallotPosition `json:"positions"`
}

type SubmitBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Votes    int    `json:"votes"`
	Message  string `json:"message"`
}

// Domain types

type Election struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Description     string     `json:"description"`
	Publicity       string     `json:"publicity"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	VotingStartHour int        `json:"voting_start"`
	VotingEndHour   int        `json:"voting_end"`
	Status          string     `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"-"`
}

// Schedule extracts the fields the election clock needs.
func (e Election) Schedule() election.Schedule {
	return election.Schedule{
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		VotingStartHour: e.VotingStartHour,
		VotingEndHour:   e.VotingEndHour,
	}
}

type Position struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"election_id"`
	Name       string    `json:"name"`
	Min        int       `json:"min"`
	Max        int       `json:"max"`
	SortOrder  int       `json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsSingleChoice reports whether the position is a plain pick-at-most-one.
func (p Position) IsSingleChoice() bool {
	return p.Min == 0 && p.Max == 1
}

type Partylist struct {
	ID           string    `json:"id"`
	ElectionID   string    `json:"election_id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}

type Candidate struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	PositionID  string    `json:"position_id"`
	PartylistID string    `json:"partylist_id"`
	Slug        string    `json:"slug"`
	FirstName   string    `json:"first_name"`
	MiddleName  *string   `json:"middle_name,omitempty"`
	LastName    string    `json:"last_name"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayName renders "Last, First Middle".
func (c Candidate) DisplayName() string {
	name := c.LastName + ", " + c.FirstName
	if c.MiddleName != nil && *c.MiddleName != "" {
		name += " " + *c.MiddleName
	}
	return name
}

type Voter struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"election_id"`
	Email      string    `json:"email"`
	HasVoted   bool      `json:"has_voted"`
	CreatedAt  time.Time `json:"created_at"`
}

// Ballot is the committed record of a voter's submission. The individual
// selections live in vote rows.
type Ballot struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	VoterID     string    `json:"-"`
	SubmittedAt time.Time `json:"submitted_at"`
	IPHash      *string   `json:"-"`
	UserAgent   *string   `json:"-"`
}

// Results

type CandidateResult struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	PartylistID string `json:"partylist_id"`
	Votes       int    `json:"votes"`
	Rank        int    `json:"rank"` // 1-indexed, ties share a rank
}

type PositionResult struct {
	PositionID string            `json:"position_id"`
	Name       string            `json:"name"`
	Abstained  int               `json:"abstained"`
	Candidates []CandidateResult `json:"candidates"`
}

type ResultsResponse struct {
	ElectionID  string           `json:"election_id"`
	BallotCount int              `json:"ballot_count"`
	ComputedAt  time.Time        `json:"computed_at"`
	Positions   []PositionResult `json:"positions"`
}

// Error response

type ErrorResponse struct {
	Error    string             `json:"error"`
	Message  string             `json:"message,omitempty"`
	Failures []election.Failure `json:"failures,omitempty"`
}

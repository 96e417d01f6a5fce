package model

// Outcome describes how a single tier attempt ended.
type Outcome string

// Attempt outcomes.
const (
	// OutcomeAccepted means the attempt's candidates were kept as the result.
	OutcomeAccepted Outcome = "accepted"

	// OutcomeEscalated means a degenerate candidate forced a retry at the next tier.
	OutcomeEscalated Outcome = "escalated"

	// OutcomeTransportFailure means the gateway failed; the extraction ended empty.
	OutcomeTransportFailure Outcome = "transport_failure"

	// OutcomeMalformed means the gateway response lacked a completion; the extraction ended empty.
	OutcomeMalformed Outcome = "malformed_response"

	// OutcomeEmptyInput means there was nothing to send; no gateway call was made.
	OutcomeEmptyInput Outcome = "empty_input"
)

// Terminal reports whether the outcome ends the extraction.
func (o Outcome) Terminal() bool {
	return o != OutcomeEscalated
}

// Attempt records one tier attempt.
type Attempt struct {
	Tier    Tier    `json:"tier"`
	Outcome Outcome `json:"outcome"`

	// Rule names the quality rule that triggered escalation, if any.
	Rule string `json:"rule,omitempty"`

	// Candidate is the candidate that triggered escalation, if any.
	Candidate string `json:"candidate,omitempty"`

	// Kept and Dropped count candidate dispositions for accepted attempts.
	Kept    int `json:"kept,omitempty"`
	Dropped int `json:"dropped,omitempty"`
}

// EscalationState tracks the attempts of one extraction.
// It is not safe for concurrent use; each extraction owns its own state.
type EscalationState struct {
	Start    Tier
	Current  Tier
	Attempts []Attempt
}

// NewEscalationState creates a new escalation state starting at the given tier.
func NewEscalationState(start Tier) *EscalationState {
	return &EscalationState{
		Start:   start,
		Current: start,
	}
}

// Record appends an attempt to the trace.
func (s *EscalationState) Record(a Attempt) {
	s.Attempts = append(s.Attempts, a)
}

// Escalate moves to the next tier.
// Returns false if the current tier is already the highest.
func (s *EscalationState) Escalate() bool {
	next, ok := s.Current.Next()
	if !ok {
		return false
	}
	s.Current = next
	return true
}

// Escalations returns how many times the extraction moved up a tier.
func (s *EscalationState) Escalations() int {
	n := 0
	for _, a := range s.Attempts {
		if a.Outcome == OutcomeEscalated {
			n++
		}
	}
	return n
}

// Last returns the most recent attempt, or the zero Attempt if none.
func (s *EscalationState) Last() Attempt {
	if len(s.Attempts) == 0 {
		return Attempt{}
	}
	return s.Attempts[len(s.Attempts)-1]
}

// Package experiment holds the participant-facing flow: consent,
// demographics, the voice conversation, and the closing questionnaires.
package experiment

import (
	"time"

	id "voxlab/pkg/domain"
)

// Step enumerates the participant flow. Steps advance strictly forward.
type Step string

const (
	StepWelcome       Step = "welcome"
	StepConsent       Step = "consent"
	StepDemographics  Step = "demographics"
	StepConversation  Step = "conversation"
	StepQuestionnaire Step = "questionnaire"
	StepDebrief       Step = "debrief"
	StepComplete      Step = "complete"
)

// steps in flow order, used for ordering comparisons.
var steps = []Step{
	StepWelcome,
	StepConsent,
	StepDemographics,
	StepConversation,
	StepQuestionnaire,
	StepDebrief,
	StepComplete,
}

func (s Step) IsValid() bool {
	return s.index() >= 0
}

// Next returns the following step, or StepComplete when already at the end.
func (s Step) Next() Step {
	i := s.index()
	if i < 0 || i >= len(steps)-1 {
		return StepComplete
	}
	return steps[i+1]
}

// Before reports whether s precedes other in flow order.
func (s Step) Before(other Step) bool {
	return s.index() < other.index()
}

func (s Step) index() int {
	for i, step := range steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Device is the parsed user-agent summary stored with demographics.
type Device struct {
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version"`
	OS             string `json:"os"`
	Platform       string `json:"platform"`
	Mobile         bool   `json:"mobile"`
	Bot            bool   `json:"bot"`
	RawUserAgent   string `json:"raw_user_agent"`
}

// Demographics are collected once, before the conversation.
type Demographics struct {
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	Education      string `json:"education"`
	NativeLanguage string `json:"native_language"`
	EnglishLevel   string `json:"english_level"`
	Device         Device `json:"device"`
}

// Answer is a single questionnaire item response on a numeric scale.
type Answer struct {
	Scale string `json:"scale"`
	Item  string `json:"item"`
	Value int    `json:"value"`
}

// Response is one participant's row in experiment_responses. It is created
// at consent and accumulates fields as the participant moves through the
// flow; Step records how far they got.
type Response struct {
	ID            id.ResponseID    `json:"id"`
	ParticipantID id.ParticipantID `json:"participant_id"`
	BatchLabel    string           `json:"batch_label,omitempty"`
	Step          Step             `json:"step"`
	ConsentedAt   *time.Time       `json:"consented_at,omitempty"`
	Demographics  *Demographics    `json:"demographics,omitempty"`
	CallID        id.CallID        `json:"call_id,omitempty"`
	Answers       []Answer         `json:"answers,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Completed reports whether the participant reached the end of the flow.
func (r *Response) Completed() bool {
	return r.Step == StepComplete
}

// Filter narrows researcher-facing response listings.
type Filter struct {
	BatchLabel    string
	Step          Step
	CompletedOnly bool
}

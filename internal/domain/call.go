package domain

import "time"

// CallOutcome enumerates the disposition of a logged call.
type CallOutcome string

const (
	OutcomeConnected  CallOutcome = "connected"
	OutcomeVoicemail  CallOutcome = "voicemail"
	OutcomeNoAnswer   CallOutcome = "no_answer"
	OutcomeMeetingSet CallOutcome = "meeting_set"
	OutcomeNotFit     CallOutcome = "not_a_fit"
)

// CallRecord represents one logged call-center interaction.
type CallRecord struct {
	ID          string      `json:"id" db:"id"`
	RepID       string      `json:"rep_id" db:"rep_id"`
	RepName     string      `json:"rep_name" db:"rep_name"`
	Outcome     CallOutcome `json:"outcome" db:"outcome"`
	DurationSec int         `json:"duration_sec" db:"duration_sec"`
	TalkRatio   float64     `json:"talk_ratio" db:"talk_ratio"` // rep talk time / total, 0..1
	OccurredAt  time.Time   `json:"occurred_at" db:"occurred_at"`
}

// CallStats is an aggregate snapshot of one rep's calls over the analysis
// window, as returned by the repository.
type CallStats struct {
	RepID            string  `json:"rep_id" db:"rep_id"`
	RepName          string  `json:"rep_name" db:"rep_name"`
	TotalCalls       int     `json:"total_calls" db:"total_calls"`
	ConnectedCalls   int     `json:"connected_calls" db:"connected_calls"`
	PositiveOutcomes int     `json:"positive_outcomes" db:"positive_outcomes"`
	AvgDurationSec   float64 `json:"avg_duration_sec" db:"avg_duration_sec"`
	AvgTalkRatio     float64 `json:"avg_talk_ratio" db:"avg_talk_ratio"`
}

// CoachingGrade is the letter grade attached to a coaching score.
type CoachingGrade string

const (
	GradeA CoachingGrade = "A"
	GradeB CoachingGrade = "B"
	GradeC CoachingGrade = "C"
	GradeD CoachingGrade = "D"
	GradeF CoachingGrade = "F"
)

// CoachingScore is the derived call-quality assessment for one rep.
// Score is nil when the rep has too few calls to grade.
type CoachingScore struct {
	RepID      string        `json:"rep_id"`
	RepName    string        `json:"rep_name"`
	Score      *int          `json:"score"`
	Grade      CoachingGrade `json:"grade"`
	FocusAreas []string      `json:"focus_areas"`
	Breakdown  CallBreakdown `json:"score_breakdown"`
}

// CallBreakdown holds the capped sub-score components of a coaching score.
type CallBreakdown struct {
	ConnectRate float64 `json:"connect_rate"`
	OutcomeRate float64 `json:"outcome_rate"`
	Duration    float64 `json:"duration"`
	TalkBalance float64 `json:"talk_balance"`
}

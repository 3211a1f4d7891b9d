package domain

// AnalysisType selects what the analysis endpoint produces.
type AnalysisType string

const (
	AnalysisSummary     AnalysisType = "summary"
	AnalysisSentiment   AnalysisType = "sentiment"
	AnalysisActionItems AnalysisType = "action_items"
)

// AnalysisRequest carries a meeting transcript to analyze.
type AnalysisRequest struct {
	Text         string       `json:"text"`
	MeetingID    string       `json:"meeting_id,omitempty"`
	AnalysisType AnalysisType `json:"analysis_type,omitempty"` // defaults to summary
}

// AnalysisResponse is the generic analysis result.
type AnalysisResponse struct {
	ID              string         `json:"id"`
	MeetingID       string         `json:"meeting_id,omitempty"`
	AnalysisType    AnalysisType   `json:"analysis_type"`
	Result          map[string]any `json:"result"`
	ConfidenceScore float64        `json:"confidence_score"`
}

// SentimentResult is the sentiment of a transcript.
type SentimentResult struct {
	OverallSentiment string             `json:"overall_sentiment"`
	SentimentScore   float64            `json:"sentiment_score"`
	Emotions         map[string]float64 `json:"emotions"`
	ConfidenceScore  float64            `json:"confidence_score"`
}

// ActionItem is one follow-up extracted from a meeting.
type ActionItem struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

// ActionItemsResult lists extracted action items.
type ActionItemsResult struct {
	ActionItems []ActionItem `json:"action_items"`
	Assignees   []string     `json:"assignees"`
	Deadlines   []*string    `json:"deadlines"`
}

// SummaryResult is a meeting summary.
type SummaryResult struct {
	MeetingID             string   `json:"meeting_id,omitempty"`
	Summary               string   `json:"summary"`
	KeyPoints             []string `json:"key_points"`
	ParticipantsMentioned []string `json:"participants_mentioned"`
	DurationAnalyzed      string   `json:"duration_analyzed"`
	ConfidenceScore       float64  `json:"confidence_score"`
}

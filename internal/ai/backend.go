// Package ai hosts the meeting-analysis operations. Every backend call goes
// through the retry executor; results may be cached in Redis.
package ai

import (
	"context"
	"fmt"

	"github.com/vietddude/echoscribe/internal/core/domain"
)

// Backend performs the AI work for one operation.
type Backend interface {
	Transcribe(ctx context.Context, req domain.TranscriptionRequest) (domain.TranscriptionResponse, error)
	Sentiment(ctx context.Context, text string) (domain.SentimentResult, error)
	ActionItems(ctx context.Context, text string) (domain.ActionItemsResult, error)
	Summary(ctx context.Context, meetingID, text string) (domain.SummaryResult, error)
}

// PlaceholderBackend returns fixed results. No model inference is performed.
type PlaceholderBackend struct{}

func (PlaceholderBackend) Transcribe(
	ctx context.Context,
	req domain.TranscriptionRequest,
) (domain.TranscriptionResponse, error) {
	return domain.TranscriptionResponse{
		MeetingID:       req.MeetingID,
		Transcript:      fmt.Sprintf("This is a placeholder transcript for %s.", req.AudioURL),
		ConfidenceScore: 0.95,
		Language:        req.Language,
		Duration:        1800.0,
		Segments: []domain.Segment{
			{ID: 0, Start: 0.0, End: 5.0, Text: "Welcome everyone to today's meeting.", Confidence: 0.98},
			{ID: 1, Start: 5.0, End: 12.0, Text: "Let's start by reviewing the agenda.", Confidence: 0.96},
		},
	}, nil
}

func (PlaceholderBackend) Sentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	return domain.SentimentResult{
		OverallSentiment: "positive",
		SentimentScore:   0.75,
		Emotions: map[string]float64{
			"joy":          0.4,
			"trust":        0.35,
			"anticipation": 0.2,
			"surprise":     0.05,
		},
		ConfidenceScore: 0.88,
	}, nil
}

func (PlaceholderBackend) ActionItems(ctx context.Context, text string) (domain.ActionItemsResult, error) {
	deadline := "2024-01-15"
	return domain.ActionItemsResult{
		ActionItems: []domain.ActionItem{
			{ID: 1, Description: "Follow up on project timeline", Priority: "high", Category: "project_management"},
			{ID: 2, Description: "Schedule next team meeting", Priority: "medium", Category: "scheduling"},
		},
		Assignees: []string{"john.doe", "jane.smith"},
		Deadlines: []*string{&deadline, nil},
	}, nil
}

func (PlaceholderBackend) Summary(ctx context.Context, meetingID, text string) (domain.SummaryResult, error) {
	return domain.SummaryResult{
		MeetingID: meetingID,
		Summary:   "This is a placeholder summary. The meeting covered project updates and next steps.",
		KeyPoints: []string{
			"Project is on track",
			"Next milestone due in 2 weeks",
			"Team needs additional resources",
		},
		ParticipantsMentioned: []string{"john.doe", "jane.smith"},
		DurationAnalyzed:      "45 minutes",
		ConfidenceScore:       0.92,
	}, nil
}

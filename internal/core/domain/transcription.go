package domain

// TranscriptionRequest references audio to transcribe.
type TranscriptionRequest struct {
	AudioURL  string `json:"audio_url"`
	MeetingID string `json:"meeting_id,omitempty"`
	Language  string `json:"language,omitempty"` // defaults to en
	Model     string `json:"model,omitempty"`    // defaults to the configured whisper model
	Format    string `json:"format,omitempty"`   // file extension, e.g. mp3
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// Segment is a timed slice of a transcript.
type Segment struct {
	ID         int     `json:"id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TranscriptionResponse is a finished transcript.
type TranscriptionResponse struct {
	JobID           string    `json:"job_id"`
	MeetingID       string    `json:"meeting_id,omitempty"`
	Transcript      string    `json:"transcript"`
	ConfidenceScore float64   `json:"confidence_score"`
	Language        string    `json:"language"`
	Duration        float64   `json:"duration,omitempty"`
	Segments        []Segment `json:"segments,omitempty"`
}

// JobStatus is the lifecycle state of a transcription job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// TranscriptionStatus reports the progress of a transcription job.
type TranscriptionStatus struct {
	JobID               string    `json:"job_id"`
	Status              JobStatus `json:"status"`
	Progress            float64   `json:"progress"`
	EstimatedCompletion *string   `json:"estimated_completion"`
}

// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang        string        `validate:"oneof=en zh vi"`
	Topic       string
	Topics      []string
	Text        string
	ServerURL   string        `validate:"required,url"`
	Timeout     time.Duration `validate:"gte=0"`
	CaptureCmd  []string      `validate:"dive,required"`
	SampleRate  int           `validate:"gte=8000,lte=96000"`
	Channels    int           `validate:"min=1,max=2"`
	ToastTTL    time.Duration `validate:"gte=0"`
	SampleTexts map[string][]string
}

// ServerConfig defines settings for the scoring server.
type ServerConfig struct {
	Addr   string `validate:"required,hostname_port"`
	DBPath string `validate:"required"`
}

// HistoryConfig defines filters and options for history output.
// Last is always sent, so it must be a positive limit.
type HistoryConfig struct {
	Topic       string
	Since       *time.Time
	Last        int `validate:"gte=1,lte=500"`
	CurveWindow int `validate:"gte=1"`
}

// ScoreResult is the evaluation response returned by the scoring endpoint.
type ScoreResult struct {
	Success            bool    `json:"success"`
	Score              float64 `json:"score"`
	PronunciationScore float64 `json:"pronunciation_score"`
	FluencyScore       float64 `json:"fluency_score"`
	Feedback           string  `json:"feedback"`
	Error              string  `json:"error,omitempty"`
}

// EvaluateRequest is the body posted to the scoring endpoint.
type EvaluateRequest struct {
	Audio string `json:"audio" binding:"required,base64"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}

// PracticeRecord captures one scored practice attempt.
type PracticeRecord struct {
	ID                 int64     `json:"id"`
	SessionID          string    `json:"session_id"`
	Topic              string    `json:"topic"`
	Text               string    `json:"text"`
	Score              float64   `json:"score"`
	PronunciationScore float64   `json:"pronunciation_score"`
	FluencyScore       float64   `json:"fluency_score"`
	Feedback           string    `json:"feedback"`
	AudioBytes         int       `json:"audio_bytes"`
	PracticedAt        time.Time `json:"practiced_at"`
}

// RecordsResponse lists practice records.
type RecordsResponse struct {
	Success bool             `json:"success"`
	Records []PracticeRecord `json:"records"`
	Error   string           `json:"error,omitempty"`
}

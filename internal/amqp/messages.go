package amqp

import (
	"encoding/json"
	"time"
)

// ReportRequestMessage asks the report worker to narrate a stored analysis.
// It carries only the analysis ID and target language; the worker loads the
// full result from the database.
type ReportRequestMessage struct {
	AnalysisID string    `json:"analysis_id"`
	Language   string    `json:"language"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewReportRequestMessage creates a report request for one analysis.
func NewReportRequestMessage(analysisID, language string) *ReportRequestMessage {
	return &ReportRequestMessage{
		AnalysisID: analysisID,
		Language:   language,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestMessageFromJSON creates a message from JSON bytes.
func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package ws

import (
	"time"

	"parkwatch/internal/occupancy"
)

// OccupancyMessage is pushed to subscribers on every classified frame.
type OccupancyMessage struct {
	Type      string            `json:"type"`
	StreamID  string            `json:"stream_id"`
	Timestamp time.Time         `json:"timestamp"`
	FrameSeq  uint64            `json:"frame_seq"`
	Threshold int               `json:"threshold"`
	Verdicts  []bool            `json:"verdicts"`
	Summary   occupancy.Summary `json:"summary"`
}

// NewOccupancyMessage builds a verdict message for a stream.
func NewOccupancyMessage(streamID string, frameSeq uint64, threshold int, verdicts []bool) *OccupancyMessage {
	return &OccupancyMessage{
		Type:      "occupancy",
		StreamID:  streamID,
		Timestamp: time.Now(),
		FrameSeq:  frameSeq,
		Threshold: threshold,
		Verdicts:  verdicts,
		Summary:   occupancy.Summarize(verdicts),
	}
}

// CalibrationMessage announces that a stream was (re)calibrated.
type CalibrationMessage struct {
	Type          string    `json:"type"`
	StreamID      string    `json:"stream_id"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	Threshold     int       `json:"threshold"`
	LowThreshold  int       `json:"low_threshold"`
	HighThreshold int       `json:"high_threshold"`
	Reason        string    `json:"reason"`
}

// NewCalibrationMessage builds a calibration notice for a stream.
func NewCalibrationMessage(streamID, sessionID string, res *occupancy.CalibrationResult, reason string) *CalibrationMessage {
	return &CalibrationMessage{
		Type:          "calibration",
		StreamID:      streamID,
		Timestamp:     time.Now(),
		SessionID:     sessionID,
		Threshold:     res.OptimalThreshold,
		LowThreshold:  res.LowThreshold,
		HighThreshold: res.HighThreshold,
		Reason:        reason,
	}
}

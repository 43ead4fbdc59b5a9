package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ArchivedSession is an immutable snapshot of a completed session, stored in
// the archive table. The candidate columns are denormalized for dashboard
// queries; Snapshot holds the full session as JSON for the detail view.
type ArchivedSession struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	CandidateName  string    `gorm:"index" json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	CandidatePhone string    `json:"candidate_phone"`
	FinalScore     int       `gorm:"index" json:"final_score"`
	MaxScore       int       `json:"max_score"`
	Summary        string    `gorm:"type:text" json:"summary"`
	Snapshot       string    `gorm:"type:text" json:"-"`
	CompletedAt    time.Time `gorm:"not null" json:"completed_at"`
	// Export bookkeeping for the archive exporter job
	Exported   bool       `gorm:"not null;default:false;index" json:"-"`
	ExportedAt *time.Time `json:"-"`
}

// NewArchivedSession snapshots a completed session under a fresh identifier.
func NewArchivedSession(s *Session, completedAt time.Time) (*ArchivedSession, error) {
	snapshot, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	score := 0
	if s.FinalScore != nil {
		score = *s.FinalScore
	}

	return &ArchivedSession{
		ID:             uuid.New().String(),
		CandidateName:  s.Candidate.Name,
		CandidateEmail: s.Candidate.Email,
		CandidatePhone: s.Candidate.Phone,
		FinalScore:     score,
		MaxScore:       len(s.Questions) * PointsPerQuestion,
		Summary:        s.Summary,
		Snapshot:       string(snapshot),
		CompletedAt:    completedAt,
	}, nil
}

// Session decodes the archived snapshot back into a full session.
func (a *ArchivedSession) Session() (*Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(a.Snapshot), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

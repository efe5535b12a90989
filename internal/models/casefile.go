package models

import "time"

type CaseStatus string

const (
	CaseStatusDraft     CaseStatus = "draft"
	CaseStatusActive    CaseStatus = "active"
	CaseStatusSubmitted CaseStatus = "submitted"
	CaseStatusArchived  CaseStatus = "archived"
)

// CaseFile is an owned collection record. Its full lifecycle belongs to the
// case-management core; this subsystem only reads it for export and inserts
// it on import.
type CaseFile struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Status               CaseStatus `json:"status"`
	SocialMediaPlatforms []string   `json:"social_media_platforms"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type ThreatLevel string

const (
	ThreatNone     ThreatLevel = "none"
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// EvidenceItem is keyed by CaseID; ownership is derived through the case.
// Referenced read-only for export. Evidence is never re-imported because the
// file storage it points at is outside this subsystem.
type EvidenceItem struct {
	ID            string         `json:"id"`
	CaseID        string         `json:"case_id"`
	FileURL       string         `json:"file_url"`
	FileType      string         `json:"file_type"`
	ExtractedText string         `json:"extracted_text"`
	Metadata      map[string]any `json:"metadata"`
	HarmDetected  bool           `json:"harm_detected"`
	ThreatLevel   ThreatLevel    `json:"threat_level"`
	UploadedAt    time.Time      `json:"uploaded_at"`
}

package models

import "time"

// ExportDocument is the self-describing file-boundary format produced by
// export and accepted by import. Produced and consumed transiently; never
// persisted by this subsystem. On read, only Cases is required.
type ExportDocument struct {
	ExportDate time.Time      `json:"export_date"`
	UserID     string         `json:"user_id"`
	Profile    *Profile       `json:"profile"`
	Cases      []CaseFile     `json:"cases"`
	Evidence   []EvidenceItem `json:"evidence"`
}

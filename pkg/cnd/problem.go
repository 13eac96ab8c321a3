package cnd

import "fmt"

// MediaTypeProblem is the content type of RFC7807 problem documents.
const MediaTypeProblem = "application/problem+json"

// Problem is a structured error returned by the daemon.
type Problem struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func (p *Problem) Error() string {
	if p.Detail == "" {
		return fmt.Sprintf("cnd problem (%d): %v", p.Status, p.Title)
	}
	return fmt.Sprintf("cnd problem (%d): %v: %v", p.Status, p.Title, p.Detail)
}

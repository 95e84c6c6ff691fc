package auth

import "time"

// Strategy issues and validates rider bearer tokens.
type Strategy interface {
	IssueToken(riderID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

// Options tunes token issuance.
type Options struct {
	TTL time.Duration
}

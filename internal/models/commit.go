package models

import "time"

// CommitRecord is a detected source-control commit, kept in a bounded log
type CommitRecord struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

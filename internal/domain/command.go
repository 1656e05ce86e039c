package domain

import "time"

// CommandStatus summarizes the outcome of one command execution.
type CommandStatus string

const (
	CommandStatusOK      CommandStatus = "ok"
	CommandStatusTimeout CommandStatus = "timeout"
	CommandStatusError   CommandStatus = "error"
)

// RawCommandResult is the output of executing one command on one session.
// Transient; consumed by the fact parser or recorded to the audit log.
type RawCommandResult struct {
	Device    string        `json:"device"`
	Command   string        `json:"command"`
	Output    string        `json:"output,omitempty"`
	Status    CommandStatus `json:"status"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// VersionFact is the structured result of a version query.
type VersionFact struct {
	Device   string `json:"device"`
	OS       string `json:"os,omitempty"`
	Version  string `json:"version"`
	Hostname string `json:"hostname,omitempty"`
	Model    string `json:"model,omitempty"`
	Serial   string `json:"serial,omitempty"`
	Uptime   string `json:"uptime,omitempty"`
}

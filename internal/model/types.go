// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Mode    string
	Author  string
	Title   string
	Dataset string
	Align   string
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a completed typing session.
type SessionRecord struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Mode       string
	PoemID     string
	Title      string
	Author     string
	Total      int
	Correct    int
	Incorrect  int
	Skipped    int
	Accuracy   int
	DurationMs int64
}

// CharStats stores per-character results for a session.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Title      string
	Correct    int
	Incorrect  int
	Skipped    int
	DurationMs int64
}

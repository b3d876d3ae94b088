package model

import "github.com/m-mizutani/goerr/v2"

// Alarm evaluation errors
var (
	ErrInvalidTimestamp   = goerr.New("invalid timestamp")
	ErrInvalidAlarmConfig = goerr.New("invalid alarm message configuration")
)

// Context keys for error values
const (
	CaseIDKey         = "case_id"
	HistoryEntryIDKey = "history_entry_id"
	TimestampKey      = "timestamp"
	MessageKeyKey     = "message_key"
)

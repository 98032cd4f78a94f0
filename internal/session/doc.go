// Package session persists chat sessions as JSON files with a sliding TTL.
//
// Each session is addressed by a ULID and holds the conversation history
// plus the last calculation result the user shared. Sessions are explicit
// values: callers Get, modify and Save them. Expired sessions are invisible
// to Get and are removed by CleanupExpired, which the server schedules
// periodically.
package session

// Package session holds the conversation store for one chat session.
//
// A Store keeps the active conversation, an archive of past conversations keyed
// by generated labels, and a pointer to the conversation currently shown.
// Archived entries are copies: viewing one never changes it, and resuming one
// forks it into the active conversation and syncs the result back after each
// turn.
//
// A Store has exactly one owner (a terminal process or a browser connection)
// and is not safe for concurrent use.
package session

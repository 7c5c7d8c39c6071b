// Package chat maintains the bounded conversation history for the
// interactive chat loop.
package chat

import "strings"

const defaultMaxTurns = 5

// Turn is one user input paired with its complete assistant reply.
// Immutable once stored.
type Turn struct {
	Human     string
	Assistant string
}

// Session holds an ordered, size-bounded history of completed turns and
// renders it into the context block prepended to new prompts.
//
// A session is owned by a single goroutine; there is no locking because
// there is no concurrent writer.
type Session struct {
	maxTurns int
	turns    []Turn
}

// NewSession creates an empty session keeping at most maxTurns turns.
// Non-positive values use the default of 5.
func NewSession(maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &Session{maxTurns: maxTurns}
}

// Record appends a completed turn. Turns beyond the cap are discarded
// oldest-first; nothing outside context rendering ever reads them, so
// retaining more would only grow memory in long sessions.
func (s *Session) Record(human, assistant string) {
	s.turns = append(s.turns, Turn{Human: human, Assistant: assistant})
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
}

// Context renders the stored turns, oldest first, as alternating
// "Human:"/"Assistant:" labeled lines joined by newlines. It returns the
// empty string when no turns are stored.
func (s *Session) Context() string {
	if len(s.turns) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(s.turns))
	for _, turn := range s.turns {
		blocks = append(blocks, "Human: "+turn.Human+"\nAssistant: "+turn.Assistant)
	}
	return strings.Join(blocks, "\n")
}

// Reset clears all history.
func (s *Session) Reset() {
	s.turns = nil
}

// Len reports the number of stored turns.
func (s *Session) Len() int {
	return len(s.turns)
}

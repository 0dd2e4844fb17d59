// Package conversation keeps a short rolling history of turns per Discord channel.
package conversation

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is the number of turns kept per channel
const DefaultCapacity = 10

// Role identifies who authored a turn
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Turn is one recorded message in a channel's history
type Turn struct {
	Role Role
	Text string
}

// Store holds per-channel histories. Each history is a FIFO bounded by capacity;
// the set of channels is bounded by an LRU over channel IDs.
type Store struct {
	mu       sync.Mutex
	capacity int
	channels *lru.Cache[string, []Turn]
}

// NewStore creates a store keeping capacity turns for at most maxChannels channels
func NewStore(capacity, maxChannels int) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("history capacity must be positive, got %d", capacity)
	}

	channels, err := lru.New[string, []Turn](maxChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to create history cache: %w", err)
	}

	return &Store{
		capacity: capacity,
		channels: channels,
	}, nil
}

// Append records a turn for the channel, dropping the oldest turn once the
// history grows past capacity.
func (s *Store) Append(channelID string, role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, _ := s.channels.Get(channelID)

	next := make([]Turn, 0, len(turns)+1)
	next = append(next, turns...)
	next = append(next, Turn{Role: role, Text: text})
	if len(next) > s.capacity {
		next = next[len(next)-s.capacity:]
	}

	s.channels.Add(channelID, next)
}

// Get returns the channel's turns oldest first. An empty history is recorded
// for channels seen for the first time.
func (s *Store) Get(channelID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, ok := s.channels.Get(channelID)
	if !ok {
		turns = []Turn{}
		s.channels.Add(channelID, turns)
	}

	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Len returns the number of channels currently tracked
func (s *Store) Len() int {
	return s.channels.Len()
}

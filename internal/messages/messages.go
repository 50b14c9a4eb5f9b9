// Package messages holds user-authored chat messages extracted from
// conversation exports, and the local heuristic that discards messages
// unlikely to be writing tasks.
package messages

import (
	"slices"
	"time"
)

// Message is one user-authored chat message. ID is the join key carried
// through every pipeline stage and is unique within a run.
type Message struct {
	ID                string `json:"id"`
	Text              string `json:"text"`
	Timestamp         int64  `json:"timestamp"`
	ConversationID    int    `json:"conversationId"`
	ConversationTitle string `json:"conversationTitle"`
}

// Span describes the time range and conversation count of a message set.
type Span struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	Conversations int    `json:"conversations"`
}

// Range returns the span of msgs. Start and End are UTC dates; both are
// empty when no message carries a timestamp.
func Range(msgs []Message) Span {
	var span Span
	var lo, hi int64
	seen := make(map[int]struct{})

	for _, m := range msgs {
		seen[m.ConversationID] = struct{}{}
		if m.Timestamp <= 0 {
			continue
		}
		if lo == 0 || m.Timestamp < lo {
			lo = m.Timestamp
		}
		if m.Timestamp > hi {
			hi = m.Timestamp
		}
	}

	span.Conversations = len(seen)
	if lo > 0 {
		span.Start = time.Unix(lo, 0).UTC().Format(time.DateOnly)
		span.End = time.Unix(hi, 0).UTC().Format(time.DateOnly)
	}

	return span
}

// Latest returns at most n messages, keeping the most recent by timestamp
// while preserving the input order of those kept. n <= 0 returns msgs.
func Latest(msgs []Message, n int) []Message {
	if n <= 0 || len(msgs) <= n {
		return msgs
	}

	idx := make([]int, len(msgs))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case msgs[a].Timestamp > msgs[b].Timestamp:
			return -1
		case msgs[a].Timestamp < msgs[b].Timestamp:
			return 1
		}
		return 0
	})

	keep := idx[:n]
	slices.Sort(keep)

	out := make([]Message, 0, n)
	for _, i := range keep {
		out = append(out, msgs[i])
	}
	return out
}

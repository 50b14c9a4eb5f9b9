package messages

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
)

// ErrInvalidExport indicates the input is not a recognized export.
var ErrInvalidExport = errors.New("invalid chat export")

type exportItem struct {
	// conversation fields
	Title      string                `json:"title"`
	CreateTime *float64              `json:"create_time"`
	Mapping    map[string]exportNode `json:"mapping"`

	// flat message fields
	ID                string `json:"id"`
	Text              string `json:"text"`
	Timestamp         int64  `json:"timestamp"`
	ConversationID    int    `json:"conversationId"`
	ConversationTitle string `json:"conversationTitle"`
}

type exportNode struct {
	Message *exportMessage `json:"message"`
}

type exportMessage struct {
	ID     string `json:"id"`
	Author struct {
		Role string `json:"role"`
	} `json:"author"`
	CreateTime *float64 `json:"create_time"`
	Content    struct {
		ContentType string            `json:"content_type"`
		Parts       []json.RawMessage `json:"parts"`
	} `json:"content"`
}

// ParseExport reads a conversation export and returns its user-authored
// text messages ordered by conversation, then timestamp.
//
// Two shapes are accepted: the ChatGPT conversations.json array, where each
// conversation's position becomes its ConversationID, and a flat array of
// Message objects. Messages with a repeated ID are dropped.
func ParseExport(r io.Reader) ([]Message, error) {
	var items []exportItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}

	var out []Message
	conversation := 0

	for _, item := range items {
		if item.Mapping != nil {
			out = append(out, conversationMessages(item, conversation)...)
			conversation++
			continue
		}

		if item.ID != "" && strings.TrimSpace(item.Text) != "" {
			out = append(out, Message{
				ID:                item.ID,
				Text:              item.Text,
				Timestamp:         item.Timestamp,
				ConversationID:    item.ConversationID,
				ConversationTitle: item.ConversationTitle,
			})
		}
	}

	slices.SortStableFunc(out, func(a, b Message) int {
		return cmp.Or(
			cmp.Compare(a.ConversationID, b.ConversationID),
			cmp.Compare(a.Timestamp, b.Timestamp),
		)
	})

	return dedupe(out), nil
}

func conversationMessages(item exportItem, conversation int) []Message {
	var fallback int64
	if item.CreateTime != nil {
		fallback = int64(math.Floor(*item.CreateTime))
	}

	var out []Message
	for key, node := range item.Mapping {
		m := node.Message
		if m == nil || m.Author.Role != "user" {
			continue
		}
		if m.Content.ContentType != "" && m.Content.ContentType != "text" {
			continue
		}

		text := joinParts(m.Content.Parts)
		if text == "" {
			continue
		}

		id := m.ID
		if id == "" {
			id = key
		}

		ts := fallback
		if m.CreateTime != nil {
			ts = int64(math.Floor(*m.CreateTime))
		}

		out = append(out, Message{
			ID:                id,
			Text:              text,
			Timestamp:         ts,
			ConversationID:    conversation,
			ConversationTitle: item.Title,
		})
	}

	// map iteration order is random
	slices.SortFunc(out, func(a, b Message) int {
		return cmp.Or(
			cmp.Compare(a.Timestamp, b.Timestamp),
			strings.Compare(a.ID, b.ID),
		)
	})

	return out
}

func joinParts(parts []json.RawMessage) string {
	var texts []string
	for _, p := range parts {
		var s string
		if err := json.Unmarshal(p, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			texts = append(texts, s)
		}
	}
	return strings.Join(texts, "\n")
}

func dedupe(msgs []Message) []Message {
	seen := make(map[string]struct{}, len(msgs))
	out := msgs[:0]
	for _, m := range msgs {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

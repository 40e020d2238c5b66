package runner

import (
	"context"
	"errors"
	"sync"

	"smartstudy/models"
)

// TutorUnavailableMessage replaces the assistant reply when a chat request fails.
const TutorUnavailableMessage = "Sorry, I'm having trouble connecting to the AI tutor right now."

var (
	ErrChatBusy     = errors.New("a chat reply is still loading")
	ErrEmptyMessage = errors.New("message is empty")
	// ErrChatMoved means the user navigated away before the reply arrived; it was dropped.
	ErrChatMoved = errors.New("chat reply discarded after navigation")
)

type Tutor interface {
	Chat(ctx context.Context, chatContext, userMessage string, history []models.ChatMessage) (string, error)
}

// chatThread is the conversation about the current question or slide. reset empties it and
// invalidates any reply still in flight. Owners call start and reset under their own cursor
// lock so a turn is always tied to the item it was asked about.
type chatThread struct {
	tutor Tutor

	mu         sync.Mutex
	messages   []models.ChatMessage
	loading    bool
	generation uint64
}

func (c *chatThread) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.loading = false
	c.generation++
}

func (c *chatThread) history() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ChatMessage(nil), c.messages...)
}

func (c *chatThread) isLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// start appends the user turn and returns the history before it along with the generation
// the reply must still match.
func (c *chatThread) start(text string) (prior []models.ChatMessage, gen uint64, err error) {
	if text == "" {
		return nil, 0, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return nil, 0, ErrChatBusy
	}
	prior = append([]models.ChatMessage(nil), c.messages...)
	c.messages = append(c.messages, models.ChatMessage{Role: models.RoleUser, Content: text})
	c.loading = true
	return prior, c.generation, nil
}

// finish asks the tutor about a started turn and appends the reply. A failed request
// degrades to TutorUnavailableMessage; the error is still returned for logging.
func (c *chatThread) finish(ctx context.Context, gen uint64, chatContext, text string, prior []models.ChatMessage) (string, error) {
	reply, err := c.tutor.Chat(ctx, chatContext, text, prior)
	if err != nil {
		reply = TutorUnavailableMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return "", ErrChatMoved
	}
	c.loading = false
	c.messages = append(c.messages, models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	return reply, err
}

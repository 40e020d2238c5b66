package runner

import (
	"context"
	"strings"
	"sync"

	"smartstudy/models"
	"smartstudy/services/prompt"
)

type View int

const (
	// ViewSplit shows the slide next to its explanation.
	ViewSplit View = iota
	ViewFullScreen
)

// PresentationRunner is a bounded cursor over a deck.
type PresentationRunner struct {
	slides []models.Slide
	chat   chatThread

	mu    sync.Mutex
	index int
	view  View
}

func NewPresentationRunner(slides []models.Slide, tutor Tutor) (*PresentationRunner, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	return &PresentationRunner{slides: slides, chat: chatThread{tutor: tutor}}, nil
}

func (p *PresentationRunner) Len() int { return len(p.slides) }

func (p *PresentationRunner) Current() (int, models.Slide) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index, p.slides[p.index]
}

// Next reports whether the cursor moved.
func (p *PresentationRunner) Next() bool {
	return p.move(1)
}

func (p *PresentationRunner) Previous() bool {
	return p.move(-1)
}

func (p *PresentationRunner) move(delta int) bool {
	p.mu.Lock()
	next := p.index + delta
	if next < 0 || next >= len(p.slides) {
		p.mu.Unlock()
		return false
	}
	p.index = next
	p.chat.reset()
	p.mu.Unlock()
	return true
}

func (p *PresentationRunner) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

func (p *PresentationRunner) ToggleView() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view == ViewSplit {
		p.view = ViewFullScreen
	} else {
		p.view = ViewSplit
	}
	return p.view
}

// Chat asks the tutor about the current slide.
func (p *PresentationRunner) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)

	p.mu.Lock()
	chatContext := prompt.SlideChatContext(p.slides[p.index])
	prior, gen, err := p.chat.start(message)
	p.mu.Unlock()
	if err != nil {
		return "", err
	}
	return p.chat.finish(ctx, gen, chatContext, message, prior)
}

func (p *PresentationRunner) ChatHistory() []models.ChatMessage {
	return p.chat.history()
}

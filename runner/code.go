package runner

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrNoSlides         = errors.New("deck has no slides")
	ErrNothingToExplain = errors.New("enter code or attach an image first")
	ErrExplainBusy      = errors.New("an explanation is still loading")
)

type Explainer interface {
	ExplainCode(ctx context.Context, code, imageBase64 string) (string, error)
}

// CodeInterpreter holds either source text or one image, never both, and explains it on
// request. Only the latest explanation is kept.
type CodeInterpreter struct {
	api Explainer

	mu          sync.Mutex
	code        string
	image       string
	imageName   string
	explanation string
	loading     bool
}

func NewCodeInterpreter(api Explainer) *CodeInterpreter {
	return &CodeInterpreter{api: api}
}

// SetCode replaces the input with text and drops any attached image.
func (c *CodeInterpreter) SetCode(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.code = code
	c.image, c.imageName = "", ""
}

// AttachImage replaces the input with a base64 PNG.
func (c *CodeInterpreter) AttachImage(name, base64Data string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.image, c.imageName = base64Data, name
	c.code = ""
}

// LoadFile treats image/* content as an image and anything else as source text.
func (c *CodeInterpreter) LoadFile(name, mimeType string, data []byte) {
	if strings.HasPrefix(mimeType, "image/") {
		c.AttachImage(name, base64.StdEncoding.EncodeToString(data))
		return
	}
	c.SetCode(string(data))
}

// Input describes what Explain would send.
func (c *CodeInterpreter) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.image != "" {
		return fmt.Sprintf("[Image Uploaded: %s]", c.imageName)
	}
	return c.code
}

func (c *CodeInterpreter) HasImage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image != ""
}

// Explain issues one request for the current input.
func (c *CodeInterpreter) Explain(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return "", ErrExplainBusy
	}
	code, image := c.code, c.image
	if strings.TrimSpace(code) == "" && image == "" {
		c.mu.Unlock()
		return "", ErrNothingToExplain
	}
	c.loading = true
	c.mu.Unlock()

	explanation, err := c.api.ExplainCode(ctx, code, image)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return "", err
	}
	c.explanation = explanation
	return explanation, nil
}

func (c *CodeInterpreter) Explanation() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.explanation
}

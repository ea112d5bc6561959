// Package conversation keeps the chat transcript and submits it to the
// loaded model.
package conversation

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pocketchat/internal/manager"
	"pocketchat/internal/session"
	"pocketchat/pkg/types"
)

// ErrEmptyInput is returned for a blank user message.
var ErrEmptyInput = errors.New("empty input")

// Engine answers completions while a session is ready.
type Engine interface {
	SessionReady() bool
	Complete(ctx context.Context, transcript []types.Message, stops []string) (string, error)
	Stream(ctx context.Context, transcript []types.Message, stops []string) iter.Seq2[string, error]
}

// Archive mirrors transcripts to durable storage.
type Archive interface {
	StartConversation(ctx context.Context, id, model string) error
	Append(ctx context.Context, id string, msg types.Message) error
}

// Controller owns the current transcript. It implements
// manager.EventPublisher and starts a fresh transcript on every
// session_ready event.
type Controller struct {
	engine  Engine
	archive Archive
	log     zerolog.Logger
	// stops is passed to every completion; nil selects the engine defaults.
	stops []string

	// send serializes Send and SendStream.
	send sync.Mutex

	mu         sync.RWMutex
	id         string
	model      string
	transcript []types.Message
	// archived is set once the conversation exists in the archive.
	archived bool
}

// New returns a Controller with an empty transcript. archive may be nil.
func New(engine Engine, archive Archive, log zerolog.Logger) *Controller {
	c := &Controller{engine: engine, archive: archive, log: log}
	c.Reset("")
	return c
}

// SetStopSequences replaces the stop sequences sent with each completion.
// nil restores the engine defaults.
func (c *Controller) SetStopSequences(stops []string) {
	c.send.Lock()
	defer c.send.Unlock()
	c.stops = append([]string(nil), stops...)
	if len(stops) == 0 {
		c.stops = nil
	}
}

// Publish implements manager.EventPublisher.
func (c *Controller) Publish(e manager.Event) {
	if e.Name == manager.EventSessionReady {
		c.Reset(e.Model)
	}
}

// Reset discards the transcript and opens a new conversation for model. The
// conversation is archived once it receives its first user message.
func (c *Controller) Reset(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = uuid.NewString()
	c.model = model
	c.transcript = types.NewTranscript()
	c.archived = false
}

// Transcript returns the conversation id and a copy of its messages.
func (c *Controller) Transcript() (string, []types.Message) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Message, len(c.transcript))
	copy(out, c.transcript)
	return c.id, out
}

// Send appends text as a user message, asks the engine for a reply and
// appends it. Without a ready session the transcript is left untouched. On
// an engine failure the user message stays in the transcript. The archive
// receives the user message only after the engine took the request.
func (c *Controller) Send(ctx context.Context, text string) (types.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Message{}, ErrEmptyInput
	}
	c.send.Lock()
	defer c.send.Unlock()
	if !c.engine.SessionReady() {
		return types.Message{}, session.ErrNoActiveSession
	}
	id, prompt := c.appendUser(text)

	reply, err := c.engine.Complete(ctx, prompt, c.stops)
	if errors.Is(err, session.ErrNoActiveSession) {
		c.dropLast(id, len(prompt))
		return types.Message{}, err
	}
	c.commitUser(ctx, id, prompt[len(prompt)-1])
	if err != nil {
		return types.Message{}, err
	}
	msg := types.Message{Role: types.RoleAssistant, Content: strings.TrimSpace(reply)}
	c.appendReply(ctx, id, msg)
	return msg, nil
}

// SendStream is Send yielding reply fragments as they arrive. The reply is
// committed once the stream ends without error. Breaking out early discards it.
func (c *Controller) SendStream(ctx context.Context, text string) iter.Seq2[string, error] {
	text = strings.TrimSpace(text)
	return func(yield func(string, error) bool) {
		if text == "" {
			yield("", ErrEmptyInput)
			return
		}
		c.send.Lock()
		defer c.send.Unlock()
		if !c.engine.SessionReady() {
			yield("", session.ErrNoActiveSession)
			return
		}
		id, prompt := c.appendUser(text)
		committed := false
		commit := func() {
			if !committed {
				committed = true
				c.commitUser(ctx, id, prompt[len(prompt)-1])
			}
		}

		var b strings.Builder
		for frag, err := range c.engine.Stream(ctx, prompt, c.stops) {
			if err != nil {
				if errors.Is(err, session.ErrNoActiveSession) && !committed {
					c.dropLast(id, len(prompt))
				} else {
					commit()
				}
				yield("", err)
				return
			}
			commit()
			b.WriteString(frag)
			if !yield(frag, nil) {
				return
			}
		}
		commit()
		reply := strings.TrimSpace(b.String())
		if reply == "" {
			return
		}
		c.appendReply(ctx, id, types.Message{Role: types.RoleAssistant, Content: reply})
	}
}

// appendUser appends the user message and returns the conversation id and
// the transcript to submit.
func (c *Controller) appendUser(text string) (string, []types.Message) {
	msg := types.Message{Role: types.RoleUser, Content: text}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = append(c.transcript, msg)
	prompt := make([]types.Message, len(c.transcript))
	copy(prompt, c.transcript)
	return c.id, prompt
}

// commitUser archives a user message the engine accepted, opening the
// conversation in the archive on its first message.
func (c *Controller) commitUser(ctx context.Context, id string, msg types.Message) {
	c.mu.Lock()
	if c.id != id {
		c.mu.Unlock()
		return
	}
	model, first := c.model, c.transcript[0]
	start := !c.archived
	c.archived = true
	c.mu.Unlock()
	if start {
		c.open(ctx, id, model, first)
	}
	c.mirror(ctx, id, msg)
}

// appendReply appends msg unless the conversation was reset meanwhile.
func (c *Controller) appendReply(ctx context.Context, id string, msg types.Message) {
	c.mu.Lock()
	if c.id != id {
		c.mu.Unlock()
		return
	}
	c.transcript = append(c.transcript, msg)
	c.mu.Unlock()
	c.mirror(ctx, id, msg)
}

// dropLast removes the user message appended for a request that found no session.
func (c *Controller) dropLast(id string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == id && len(c.transcript) == n {
		c.transcript = c.transcript[:n-1]
	}
}

func (c *Controller) open(ctx context.Context, id, model string, first types.Message) {
	if c.archive == nil {
		return
	}
	if err := c.archive.StartConversation(context.WithoutCancel(ctx), id, model); err != nil {
		c.log.Warn().Err(err).Str("conversation", id).Msg("archive start failed")
		return
	}
	c.mirror(ctx, id, first)
}

func (c *Controller) mirror(ctx context.Context, id string, msg types.Message) {
	if c.archive == nil {
		return
	}
	if err := c.archive.Append(context.WithoutCancel(ctx), id, msg); err != nil {
		c.log.Warn().Err(err).Str("conversation", id).Msg("archive append failed")
	}
}

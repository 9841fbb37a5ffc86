// Package interaction implements the disambiguation session protocol: an
// ambiguous command result is narrowed to one candidate through a short-lived,
// single-shot listening window on the chat transport.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

const (
	// DefaultTimeout is the listening window length when none is configured.
	DefaultTimeout = 60 * time.Second

	cancelToken = "cancel"
)

var (
	// ErrNoCandidates is returned when Resolve is invoked with an empty list.
	// Callers are expected to report "no results" themselves and not call in.
	ErrNoCandidates = errors.New("no candidates to resolve")

	// ErrSessionActive is returned when the requester already has a listening
	// window open in the same channel.
	ErrSessionActive = errors.New("a selection is already pending in this channel")
)

// Candidate is a transient search result subject to disambiguation.
type Candidate struct {
	ID   string
	Name string
}

// OutcomeKind enumerates how a session resolved.
type OutcomeKind int

const (
	OutcomeSelected OutcomeKind = iota
	OutcomeCancelled
	OutcomeTimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSelected:
		return "selected"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Outcome is the resolution of one session. Cancelled and TimedOut are
// first-class outcomes, not errors.
type Outcome struct {
	Kind      OutcomeKind
	Candidate Candidate
	Index     int
}

type sessionKey struct {
	Requester sharedtypes.DiscordID
	Channel   sharedtypes.ChannelID
}

// Resolver turns an ordered candidate list into a single chosen candidate.
type Resolver struct {
	messenger chat.Messenger
	logger    *slog.Logger
	tracer    trace.Tracer
	timeout   time.Duration

	mu     sync.Mutex
	active map[sessionKey]struct{}
}

// NewResolver creates a Resolver. A non-positive timeout falls back to
// DefaultTimeout.
func NewResolver(messenger chat.Messenger, logger *slog.Logger, tracer trace.Tracer, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		messenger: messenger,
		logger:    logger,
		tracer:    tracer,
		timeout:   timeout,
		active:    make(map[sessionKey]struct{}),
	}
}

// Resolve disambiguates candidates for the requester in the given channel.
//
// A single candidate is returned immediately with no prompt and no session.
// Otherwise a numbered listing is sent and exactly one listening window is
// opened, bound to the requester and channel, accepting at most one reply:
// the cancel token or an in-range 1-based index. Everything else is ignored
// and does not extend the deadline.
func (r *Resolver) Resolve(ctx context.Context, candidates []Candidate, requesterID sharedtypes.DiscordID, channelID sharedtypes.ChannelID) (Outcome, error) {
	if len(candidates) == 0 {
		return Outcome{}, ErrNoCandidates
	}
	if len(candidates) == 1 {
		return Outcome{Kind: OutcomeSelected, Candidate: candidates[0], Index: 0}, nil
	}

	ctx, span := r.tracer.Start(ctx, "interaction.resolve", trace.WithAttributes(
		attribute.String("requester_id", string(requesterID)),
		attribute.String("channel_id", string(channelID)),
		attribute.Int("candidate_count", len(candidates)),
	))
	defer span.End()

	key := sessionKey{Requester: requesterID, Channel: channelID}
	if !r.acquire(key) {
		return Outcome{}, ErrSessionActive
	}
	defer r.release(key)

	if _, err := r.messenger.SendEmbed(ctx, channelID, listingEmbed(candidates)); err != nil {
		return Outcome{}, fmt.Errorf("failed to send candidate listing: %w", err)
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.messenger.AwaitNextMatching(deadlineCtx, channelID, selectionPredicate(requesterID, len(candidates)))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.InfoContext(ctx, "Disambiguation session timed out",
				attr.String("requester_id", string(requesterID)),
				attr.String("channel_id", string(channelID)),
			)
			return Outcome{Kind: OutcomeTimedOut}, nil
		}
		return Outcome{}, fmt.Errorf("listening window failed: %w", err)
	}

	content := strings.TrimSpace(reply.Content)
	if strings.EqualFold(content, cancelToken) {
		return Outcome{Kind: OutcomeCancelled}, nil
	}

	// The predicate guarantees an in-range integer here. Replies are 1-based;
	// storage is 0-based.
	k, _ := strconv.Atoi(content)
	return Outcome{Kind: OutcomeSelected, Candidate: candidates[k-1], Index: k - 1}, nil
}

func (r *Resolver) acquire(key sessionKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.active[key]; exists {
		return false
	}
	r.active[key] = struct{}{}
	return true
}

func (r *Resolver) release(key sessionKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, key)
}

// selectionPredicate accepts the first message from the requester that is
// either the cancel token or an integer within [1, n].
func selectionPredicate(requesterID sharedtypes.DiscordID, n int) func(chat.IncomingMessage) bool {
	return func(m chat.IncomingMessage) bool {
		if m.AuthorID != requesterID {
			return false
		}
		content := strings.TrimSpace(m.Content)
		if strings.EqualFold(content, cancelToken) {
			return true
		}
		k, err := strconv.Atoi(content)
		if err != nil {
			return false
		}
		return k >= 1 && k <= n
	}
}

// listingEmbed renders the 1-based numbered candidate listing.
func listingEmbed(candidates []Candidate) chat.Embed {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d.) %s\n", i+1, c.Name)
	}
	return chat.Embed{
		Title:       "Which one would you like?",
		Description: strings.TrimRight(b.String(), "\n"),
		Footer:      "Reply with the number of the result you would like, or cancel. Ex.: 2",
	}
}

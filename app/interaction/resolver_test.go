package interaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

const (
	testRequester = "user-1"
	testChannel   = "chan-1"
)

func newTestResolver(messenger chat.Messenger, timeout time.Duration) *Resolver {
	return NewResolver(
		messenger,
		observability.NoOpLogger,
		noop.NewTracerProvider().Tracer("test"),
		timeout,
	)
}

func threeCandidates() []Candidate {
	return []Candidate{
		{ID: "g-1", Name: "Half-Life"},
		{ID: "g-2", Name: "Half-Life 2"},
		{ID: "g-3", Name: "Half-Life: Alyx"},
	}
}

func reply(author, content string) chat.IncomingMessage {
	return chat.IncomingMessage{
		ID:        "m-1",
		ChannelID: testChannel,
		AuthorID:  sharedtypes.DiscordID(author),
		Content:   content,
	}
}

func TestResolve_SingleCandidateShortCircuits(t *testing.T) {
	messenger := NewFakeMessenger()
	r := newTestResolver(messenger, time.Second)

	only := Candidate{ID: "g-1", Name: "Half-Life"}
	outcome, err := r.Resolve(context.Background(), []Candidate{only}, testRequester, testChannel)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSelected, outcome.Kind)
	assert.Equal(t, only, outcome.Candidate)
	assert.Equal(t, 0, outcome.Index)
	// No listing, no session: the transport must never be touched.
	assert.Empty(t, messenger.Trace())
}

func TestResolve_EmptyCandidates(t *testing.T) {
	r := newTestResolver(NewFakeMessenger(), time.Second)

	_, err := r.Resolve(context.Background(), nil, testRequester, testChannel)

	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestResolve_NumericSelection(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantIndex int
	}{
		{name: "first", content: "1", wantIndex: 0},
		{name: "middle", content: "2", wantIndex: 1},
		{name: "last", content: "3", wantIndex: 2},
		{name: "surrounding whitespace", content: "  2  ", wantIndex: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messenger := NewFakeMessenger()
			messenger.Incoming = []chat.IncomingMessage{reply(testRequester, tt.content)}
			r := newTestResolver(messenger, time.Second)

			outcome, err := r.Resolve(context.Background(), threeCandidates(), testRequester, testChannel)

			require.NoError(t, err)
			assert.Equal(t, OutcomeSelected, outcome.Kind)
			assert.Equal(t, tt.wantIndex, outcome.Index)
			assert.Equal(t, threeCandidates()[tt.wantIndex], outcome.Candidate)
			assert.Equal(t, []string{"SendEmbed", "AwaitNextMatching"}, messenger.Trace())
		})
	}
}

func TestResolve_CancelToken(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "lowercase", content: "cancel"},
		{name: "uppercase", content: "CANCEL"},
		{name: "mixed case with whitespace", content: "  CaNcEl  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messenger := NewFakeMessenger()
			messenger.Incoming = []chat.IncomingMessage{reply(testRequester, tt.content)}
			r := newTestResolver(messenger, time.Second)

			outcome, err := r.Resolve(context.Background(), threeCandidates(), testRequester, testChannel)

			require.NoError(t, err)
			assert.Equal(t, OutcomeCancelled, outcome.Kind)
		})
	}
}

func TestResolve_TimesOutWithoutQualifyingReply(t *testing.T) {
	tests := []struct {
		name     string
		incoming []chat.IncomingMessage
	}{
		{name: "no replies at all", incoming: nil},
		{
			name: "reply from a different requester",
			incoming: []chat.IncomingMessage{
				reply("someone-else", "2"),
			},
		},
		{
			name: "out of range and malformed replies",
			incoming: []chat.IncomingMessage{
				reply(testRequester, "0"),
				reply(testRequester, "4"),
				reply(testRequester, "-1"),
				reply(testRequester, "two"),
				reply(testRequester, "2.5"),
				reply(testRequester, "nevermind"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messenger := NewFakeMessenger()
			messenger.Incoming = tt.incoming
			r := newTestResolver(messenger, 30*time.Millisecond)

			outcome, err := r.Resolve(context.Background(), threeCandidates(), testRequester, testChannel)

			require.NoError(t, err)
			assert.Equal(t, OutcomeTimedOut, outcome.Kind)
		})
	}
}

func TestResolve_ReplyJustBeforeDeadlineStillSelects(t *testing.T) {
	const window = 100 * time.Millisecond
	messenger := NewFakeMessenger()
	messenger.AwaitNextMatchingFunc = func(ctx context.Context, channelID sharedtypes.ChannelID, match func(chat.IncomingMessage) bool) (chat.IncomingMessage, error) {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)

		// Hold the qualifying reply until moments before the window closes.
		select {
		case <-time.After(time.Until(deadline) - 25*time.Millisecond):
		case <-ctx.Done():
			return chat.IncomingMessage{}, ctx.Err()
		}

		m := reply(testRequester, "2")
		require.True(t, match(m))
		return m, nil
	}
	r := newTestResolver(messenger, window)

	outcome, err := r.Resolve(context.Background(), threeCandidates(), testRequester, testChannel)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSelected, outcome.Kind)
	assert.Equal(t, 1, outcome.Index)
	assert.Equal(t, threeCandidates()[1], outcome.Candidate)
}

func TestResolve_IgnoredRepliesDoNotConsumeTheWindow(t *testing.T) {
	// A stream of non-qualifying noise followed by a valid pick must still
	// resolve to the pick.
	messenger := NewFakeMessenger()
	messenger.Incoming = []chat.IncomingMessage{
		reply("someone-else", "1"),
		reply(testRequester, "99"),
		reply(testRequester, "not a number"),
		reply(testRequester, "3"),
	}
	r := newTestResolver(messenger, time.Second)

	outcome, err := r.Resolve(context.Background(), threeCandidates(), testRequester, testChannel)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSelected, outcome.Kind)
	assert.Equal(t, 2, outcome.Index)
}

func TestResolve_RejectsConcurrentSessionForSameKey(t *testing.T) {
	messenger := NewFakeMessenger()
	r := newTestResolver(messenger, 200*time.Millisecond)

	started := make(chan struct{})
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		close(started)
		// Blocks until timeout: no qualifying reply scripted.
		_, _ = r.Resolve(context.Background(), threeCandidates(), testRequester, testChannel)
	}()

	<-started
	// Give the first session time to register and start listening.
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		_, active := r.active[sessionKey{Requester: testRequester, Channel: testChannel}]
		return active
	}, time.Second, 5*time.Millisecond)

	_, err := r.Resolve(context.Background(), threeCandidates(), testRequester, testChannel)
	assert.ErrorIs(t, err, ErrSessionActive)

	// A session for the same requester in a different channel is independent.
	other := NewFakeMessenger()
	other.Incoming = []chat.IncomingMessage{{
		ID:        "m-2",
		ChannelID: "chan-2",
		AuthorID:  testRequester,
		Content:   "1",
	}}
	r2 := newTestResolver(other, time.Second)
	outcome, err := r2.Resolve(context.Background(), threeCandidates(), testRequester, "chan-2")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSelected, outcome.Kind)

	<-firstDone

	// The registry entry is removed once the first session resolves.
	r.mu.Lock()
	_, stillActive := r.active[sessionKey{Requester: testRequester, Channel: testChannel}]
	r.mu.Unlock()
	assert.False(t, stillActive)
}

func TestResolve_ContextCancelledPropagates(t *testing.T) {
	messenger := NewFakeMessenger()
	r := newTestResolver(messenger, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, threeCandidates(), testRequester, testChannel)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

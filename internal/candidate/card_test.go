package candidate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/annotext/internal/annotation"
	"github.com/at-ishikawa/annotext/internal/collection"
	"github.com/at-ishikawa/annotext/internal/dictionary"
	mock_dictionary "github.com/at-ishikawa/annotext/internal/mocks/dictionary"
	"github.com/at-ishikawa/annotext/internal/segment"
)

var (
	xing = dictionary.Entry{Reading: []string{"xíng"}, Senses: []string{"to walk"}}
	hang = dictionary.Entry{Reading: []string{"háng"}, Senses: []string{"row"}}
	hao  = dictionary.Entry{Reading: []string{"hǎo"}, Senses: []string{"good"}}
)

func TestCard_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_dictionary.NewMockClient(ctrl)
	client.EXPECT().Lookup(gomock.Any(), "行").Return([]dictionary.Entry{xing, hang}, nil).Times(2)
	client.EXPECT().Lookup(gomock.Any(), "好").Return([]dictionary.Entry{hao}, nil)
	card := NewCard(annotation.NewBuilder(client, 1), nil)
	ctx := context.Background()

	span, applied := card.Load(ctx, segment.Token{Text: "行", Start: 0, End: 1})
	require.True(t, applied)
	assert.Equal(t, []dictionary.Entry{xing, hang}, span.Entries)
	assert.Equal(t, 0, span.ActiveEntryIndex)

	assert.Equal(t, 1, card.Next().ActiveEntryIndex)
	assert.Equal(t, 1, card.Next().ActiveEntryIndex)

	// the same token keeps the selection
	span, applied = card.Load(ctx, segment.Token{Text: "行", Start: 4, End: 5})
	require.True(t, applied)
	assert.Equal(t, 1, span.ActiveEntryIndex)
	assert.Equal(t, 4, span.Token.Start)

	span, applied = card.Load(ctx, segment.Token{Text: "好", Start: 1, End: 2})
	require.True(t, applied)
	assert.Equal(t, 0, span.ActiveEntryIndex)
	assert.Equal(t, []dictionary.Entry{hao}, span.Entries)
	assert.Equal(t, 0, card.Previous().ActiveEntryIndex)
	assert.Equal(t, 0, card.Next().ActiveEntryIndex)
}

func TestCard_Load_LookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_dictionary.NewMockClient(ctrl)
	client.EXPECT().Lookup(gomock.Any(), "好").Return(nil, dictionary.ErrUnavailable)
	card := NewCard(annotation.NewBuilder(client, 1), nil)

	span, applied := card.Load(context.Background(), segment.Token{Text: "好", Start: 0, End: 1})
	require.True(t, applied)
	assert.Empty(t, span.Entries)
	assert.False(t, span.Annotated())
	assert.Equal(t, 0, card.Next().ActiveEntryIndex)
}

func TestCard_Load_LastRequestWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_dictionary.NewMockClient(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	client.EXPECT().Lookup(gomock.Any(), "行").DoAndReturn(func(ctx context.Context, term string) ([]dictionary.Entry, error) {
		close(started)
		<-release
		return []dictionary.Entry{xing, hang}, nil
	})
	client.EXPECT().Lookup(gomock.Any(), "好").Return([]dictionary.Entry{hao}, nil)
	card := NewCard(annotation.NewBuilder(client, 1), nil)
	ctx := context.Background()

	type result struct {
		span    annotation.Span
		applied bool
	}
	slow := make(chan result)
	go func() {
		span, applied := card.Load(ctx, segment.Token{Text: "行", Start: 0, End: 1})
		slow <- result{span: span, applied: applied}
	}()
	<-started

	span, applied := card.Load(ctx, segment.Token{Text: "好", Start: 1, End: 2})
	require.True(t, applied)
	assert.Equal(t, []dictionary.Entry{hao}, span.Entries)

	close(release)
	got := <-slow
	assert.False(t, got.applied)
	assert.Equal(t, "好", got.span.Token.Text)
	assert.Equal(t, []dictionary.Entry{hao}, card.Span().Entries)
}

func TestCard_Add(t *testing.T) {
	tests := []struct {
		name      string
		entries   []dictionary.Entry
		moves     int
		hook      func(calls *[]string) collection.Hook
		wantErr   error
		wantCalls []string
		wantAdded bool
	}{
		{
			name:    "selected entry is added",
			entries: []dictionary.Entry{xing, hang},
			moves:   1,
			hook: func(calls *[]string) collection.Hook {
				return func(ctx context.Context, term string, entry dictionary.Entry) error {
					*calls = append(*calls, term+":"+entry.Reading[0])
					return nil
				}
			},
			wantCalls: []string{"行:háng"},
			wantAdded: true,
		},
		{
			name:    "no entries",
			entries: []dictionary.Entry{},
			hook: func(calls *[]string) collection.Hook {
				return func(ctx context.Context, term string, entry dictionary.Entry) error {
					*calls = append(*calls, term)
					return nil
				}
			},
			wantErr: ErrNoEntry,
		},
		{
			name:    "no hook",
			entries: []dictionary.Entry{xing},
			hook: func(calls *[]string) collection.Hook {
				return nil
			},
			wantErr: collection.ErrNoHook,
		},
		{
			name:    "hook failure",
			entries: []dictionary.Entry{xing},
			hook: func(calls *[]string) collection.Hook {
				return func(ctx context.Context, term string, entry dictionary.Entry) error {
					*calls = append(*calls, term)
					return errors.New("disk full")
				}
			},
			wantCalls: []string{"行"},
			wantErr:   errors.New("disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_dictionary.NewMockClient(ctrl)
			client.EXPECT().Lookup(gomock.Any(), "行").Return(tt.entries, nil)

			var calls []string
			card := NewCard(annotation.NewBuilder(client, 1), tt.hook(&calls))
			ctx := context.Background()
			card.Load(ctx, segment.Token{Text: "行", Start: 0, End: 1})
			for range tt.moves {
				card.Next()
			}

			err := card.Add(ctx)
			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrNoEntry) || errors.Is(tt.wantErr, collection.ErrNoHook) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantAdded, card.Added())
		})
	}
}

func TestCard_Added_ResetsOnNewToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_dictionary.NewMockClient(ctrl)
	client.EXPECT().Lookup(gomock.Any(), "行").Return([]dictionary.Entry{xing, hang}, nil)
	client.EXPECT().Lookup(gomock.Any(), "好").Return([]dictionary.Entry{hao}, nil)
	hook := func(ctx context.Context, term string, entry dictionary.Entry) error { return nil }
	card := NewCard(annotation.NewBuilder(client, 1), hook)
	ctx := context.Background()

	card.Load(ctx, segment.Token{Text: "行", Start: 0, End: 1})
	require.NoError(t, card.Add(ctx))
	assert.True(t, card.Added())
	card.Next()
	assert.False(t, card.Added())

	card.Load(ctx, segment.Token{Text: "好", Start: 1, End: 2})
	assert.False(t, card.Added())
}

func TestCard_Added_SameTokenReloaded(t *testing.T) {
	tests := []struct {
		name      string
		reloaded  []dictionary.Entry
		wantAdded bool
	}{
		{
			name:      "same entries keep the added state",
			reloaded:  []dictionary.Entry{xing, hang},
			wantAdded: true,
		},
		{
			name:      "reordered entries clear the added state",
			reloaded:  []dictionary.Entry{hang, xing},
			wantAdded: false,
		},
		{
			name:      "changed senses clear the added state",
			reloaded:  []dictionary.Entry{{Reading: xing.Reading, Senses: []string{"OK"}}, hang},
			wantAdded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_dictionary.NewMockClient(ctrl)
			gomock.InOrder(
				client.EXPECT().Lookup(gomock.Any(), "行").Return([]dictionary.Entry{xing, hang}, nil),
				client.EXPECT().Lookup(gomock.Any(), "行").Return(tt.reloaded, nil),
			)
			hook := func(ctx context.Context, term string, entry dictionary.Entry) error { return nil }
			card := NewCard(annotation.NewBuilder(client, 1), hook)
			ctx := context.Background()
			token := segment.Token{Text: "行", Start: 0, End: 1}

			card.Load(ctx, token)
			require.NoError(t, card.Add(ctx))
			require.True(t, card.Added())

			_, ok := card.Load(ctx, token)
			require.True(t, ok)
			assert.Equal(t, 0, card.Span().ActiveEntryIndex)
			assert.Equal(t, tt.wantAdded, card.Added())
		})
	}
}

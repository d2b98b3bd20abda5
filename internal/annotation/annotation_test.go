package annotation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/annotext/internal/dictionary"
	mock_dictionary "github.com/at-ishikawa/annotext/internal/mocks/dictionary"
	"github.com/at-ishikawa/annotext/internal/segment"
)

func TestUnits(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		reading []string
		want    []ReadingUnit
	}{
		{
			name:    "one reading per character",
			text:    "你好",
			reading: []string{"nǐ", "hǎo"},
			want: []ReadingUnit{
				{Char: "你", Reading: "nǐ"},
				{Char: "好", Reading: "hǎo"},
			},
		},
		{
			name:    "fewer readings than characters",
			text:    "图书馆",
			reading: []string{"túshūguǎn"},
			want: []ReadingUnit{
				{Char: "图", Reading: "túshūguǎn"},
				{Char: "书", Reading: ""},
				{Char: "馆", Reading: ""},
			},
		},
		{
			name:    "more readings than characters",
			text:    "好",
			reading: []string{"hǎo", "extra"},
			want: []ReadingUnit{
				{Char: "好", Reading: "hǎo"},
			},
		},
		{
			name:    "no reading",
			text:    "。",
			reading: nil,
			want: []ReadingUnit{
				{Char: "。", Reading: ""},
			},
		},
		{
			name: "empty text",
			text: "",
			want: []ReadingUnit{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Units(tt.text, tt.reading))
		})
	}
}

func TestSpan(t *testing.T) {
	token := segment.Token{Text: "行", Start: 0, End: 1}
	entries := []dictionary.Entry{
		{Reading: []string{"xíng"}, Senses: []string{"to walk", "OK"}},
		{Reading: []string{"háng"}, Senses: []string{"row"}},
	}

	tests := []struct {
		name          string
		span          Span
		wantAnnotated bool
		wantSenses    []string
		wantUnits     []ReadingUnit
	}{
		{
			name:          "first entry by default",
			span:          Span{Token: token, Entries: entries},
			wantAnnotated: true,
			wantSenses:    []string{"to walk", "OK"},
			wantUnits:     []ReadingUnit{{Char: "行", Reading: "xíng"}},
		},
		{
			name:          "selected entry",
			span:          Span{Token: token, Entries: entries, ActiveEntryIndex: 1},
			wantAnnotated: true,
			wantSenses:    []string{"row"},
			wantUnits:     []ReadingUnit{{Char: "行", Reading: "háng"}},
		},
		{
			name:          "index out of range is clamped",
			span:          Span{Token: token, Entries: entries, ActiveEntryIndex: 5},
			wantAnnotated: true,
			wantSenses:    []string{"row"},
			wantUnits:     []ReadingUnit{{Char: "行", Reading: "háng"}},
		},
		{
			name:          "no entries is plain text",
			span:          Span{Token: token},
			wantAnnotated: false,
			wantSenses:    []string{},
			wantUnits:     []ReadingUnit{{Char: "行", Reading: ""}},
		},
		{
			name:          "entry without a reading is plain text",
			span:          Span{Token: token, Entries: []dictionary.Entry{{Senses: []string{"to walk"}}}},
			wantAnnotated: false,
			wantSenses:    []string{"to walk"},
			wantUnits:     []ReadingUnit{{Char: "行", Reading: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAnnotated, tt.span.Annotated())
			assert.Equal(t, tt.wantSenses, tt.span.Senses())
			assert.Equal(t, tt.wantUnits, tt.span.Units())
		})
	}
}

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name       string
		token      segment.Token
		setupMocks func(client *mock_dictionary.MockClient)
		want       Span
		wantUnits  []ReadingUnit
	}{
		{
			name:  "reading shorter than the token",
			token: segment.Token{Text: "图书馆", Start: 0, End: 3},
			setupMocks: func(client *mock_dictionary.MockClient) {
				client.EXPECT().Lookup(gomock.Any(), "图书馆").Return([]dictionary.Entry{
					{Reading: []string{"tú"}, Senses: []string{"library"}},
				}, nil)
			},
			want: Span{
				Token: segment.Token{Text: "图书馆", Start: 0, End: 3},
				Entries: []dictionary.Entry{
					{Reading: []string{"tú"}, Senses: []string{"library"}},
				},
			},
			wantUnits: []ReadingUnit{
				{Char: "图", Reading: "tú"},
				{Char: "书", Reading: ""},
				{Char: "馆", Reading: ""},
			},
		},
		{
			name:  "lookup failure renders plain text",
			token: segment.Token{Text: "好", Start: 0, End: 1},
			setupMocks: func(client *mock_dictionary.MockClient) {
				client.EXPECT().Lookup(gomock.Any(), "好").Return(nil, dictionary.ErrUnavailable)
			},
			want: Span{
				Token: segment.Token{Text: "好", Start: 0, End: 1},
			},
			wantUnits: []ReadingUnit{{Char: "好", Reading: ""}},
		},
		{
			name:  "no entries",
			token: segment.Token{Text: "，", Start: 2, End: 3},
			setupMocks: func(client *mock_dictionary.MockClient) {
				client.EXPECT().Lookup(gomock.Any(), "，").Return([]dictionary.Entry{}, nil)
			},
			want: Span{
				Token:   segment.Token{Text: "，", Start: 2, End: 3},
				Entries: []dictionary.Entry{},
			},
			wantUnits: []ReadingUnit{{Char: "，", Reading: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_dictionary.NewMockClient(ctrl)
			tt.setupMocks(client)

			got := NewBuilder(client, 1).Build(context.Background(), tt.token)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantUnits, got.Units())
		})
	}
}

func TestBuilder_BuildAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_dictionary.NewMockClient(ctrl)
	// the same word twice is looked up for each token
	client.EXPECT().Lookup(gomock.Any(), "时间").Return([]dictionary.Entry{
		{Reading: []string{"shí", "jiān"}, Senses: []string{"time"}},
	}, nil).Times(2)
	client.EXPECT().Lookup(gomock.Any(), "，").Return(nil, nil)

	tokens := segment.Align("时间，时间", []string{"时间", "，", "时间"})
	got := NewBuilder(client, 2).BuildAll(context.Background(), tokens)

	assert.Len(t, got, 3)
	for i, span := range got {
		assert.Equal(t, tokens[i], span.Token)
	}
	assert.True(t, got[0].Annotated())
	assert.False(t, got[1].Annotated())
	assert.True(t, got[2].Annotated())
	assert.Equal(t, 3, got[2].Token.Start)
}

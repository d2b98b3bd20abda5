package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Entry
	}{
		{
			name: "array of entries",
			body: `[
				{"reading": ["nǐ", "hǎo"], "senses": ["hello", "hi"]},
				{"reading": ["nǐ", "hǎo"], "senses": ["how are you"]}
			]`,
			want: []Entry{
				{Reading: []string{"nǐ", "hǎo"}, Senses: []string{"hello", "hi"}},
				{Reading: []string{"nǐ", "hǎo"}, Senses: []string{"how are you"}},
			},
		},
		{
			name: "reading as a numbered pinyin string",
			body: `[{"reading": "ni3 hao3", "senses": ["hello"]}]`,
			want: []Entry{
				{Reading: []string{"nǐ", "hǎo"}, Senses: []string{"hello"}},
			},
		},
		{
			name: "object wrapping entries",
			body: `{"entries": [{"pinyin": ["shi2", "jian1"], "definitions": "time"}]}`,
			want: []Entry{
				{Reading: []string{"shí", "jiān"}, Senses: []string{"time"}},
			},
		},
		{
			name: "object wrapping results",
			body: `{"results": [{"reading": ["xue2"], "senses": ["to study"]}]}`,
			want: []Entry{
				{Reading: []string{"xué"}, Senses: []string{"to study"}},
			},
		},
		{
			name: "single entry object",
			body: `{"reading": ["zhong1", "wen2"], "senses": ["Chinese language"]}`,
			want: []Entry{
				{Reading: []string{"zhōng", "wén"}, Senses: []string{"Chinese language"}},
			},
		},
		{
			name: "empty array",
			body: `[]`,
			want: []Entry{},
		},
		{
			name: "non entry items and mixed typed values are ignored",
			body: `[1, "text", null, {"reading": ["hao3", 3], "senses": [null, "good", ""]}, {"other": true}]`,
			want: []Entry{
				{Reading: []string{"hǎo"}, Senses: []string{"good"}},
			},
		},
		{
			name: "missing senses",
			body: `[{"reading": ["de5"]}]`,
			want: []Entry{
				{Reading: []string{"de"}, Senses: []string{}},
			},
		},
		{
			name: "not json",
			body: `<html>error</html>`,
			want: nil,
		},
		{
			name: "truncated json",
			body: `[{"reading": ["ni3"`,
			want: nil,
		},
		{
			name: "null",
			body: `null`,
			want: nil,
		},
		{
			name: "empty body",
			body: ``,
			want: nil,
		},
		{
			name: "object without entries",
			body: `{"msg": "yo"}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize([]byte(tt.body))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntry_Definition(t *testing.T) {
	entry := Entry{Senses: []string{"hello", "hi"}}
	assert.Equal(t, "hello, hi", entry.Definition())
	assert.Equal(t, "", Entry{}.Definition())
}

func TestEntry_Clone(t *testing.T) {
	entry := Entry{Reading: []string{"nǐ"}, Senses: []string{"you"}}
	cloned := entry.Clone()
	cloned.Reading[0] = "changed"
	assert.Equal(t, "nǐ", entry.Reading[0])
}

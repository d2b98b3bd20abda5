package dictionary

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
)

// stringList accepts either an array of strings or a single string.
// Values of other types are ignored.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				continue
			}
			*l = append(*l, s)
		}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*l = stringList{s}
	}
	return nil
}

type rawEntry struct {
	Reading     stringList `json:"reading"`
	Pinyin      stringList `json:"pinyin"`
	Senses      stringList `json:"senses"`
	Definitions stringList `json:"definitions"`
}

func (raw rawEntry) toEntry() (Entry, bool) {
	reading := raw.Reading
	if len(reading) == 0 {
		reading = raw.Pinyin
	}
	senses := raw.Senses
	if len(senses) == 0 {
		senses = raw.Definitions
	}
	if len(reading) == 0 && len(senses) == 0 {
		return Entry{}, false
	}

	// a reading given as one string like "ni3 hao3" has one syllable per word
	if len(reading) == 1 {
		reading = strings.Fields(reading[0])
	}
	entry := Entry{
		Reading: make([]string, 0, len(reading)),
		Senses:  make([]string, 0, len(senses)),
	}
	for _, syllable := range reading {
		entry.Reading = append(entry.Reading, ToneMarked(strings.TrimSpace(syllable)))
	}
	for _, sense := range senses {
		sense = strings.TrimSpace(sense)
		if sense == "" {
			continue
		}
		entry.Senses = append(entry.Senses, sense)
	}
	return entry, true
}

// Normalize converts a lookup response body into entries.
//
// The body may be an array of entries, an object wrapping them in "entries"
// or "results", or a single entry object.
// Anything that cannot be read as entries results in no entries.
func Normalize(body []byte) []Entry {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			slog.Default().Debug("malformed dictionary response", "error", err)
			return nil
		}
		entries := make([]Entry, 0, len(items))
		for _, item := range items {
			entry, ok := normalizeEntry(item)
			if !ok {
				continue
			}
			entries = append(entries, entry)
		}
		return entries
	case '{':
		var wrapper struct {
			Entries json.RawMessage `json:"entries"`
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			slog.Default().Debug("malformed dictionary response", "error", err)
			return nil
		}
		if isArray(wrapper.Entries) {
			return Normalize(wrapper.Entries)
		}
		if isArray(wrapper.Results) {
			return Normalize(wrapper.Results)
		}
		entry, ok := normalizeEntry(body)
		if !ok {
			return nil
		}
		return []Entry{entry}
	}
	return nil
}

func normalizeEntry(data json.RawMessage) (Entry, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Entry{}, false
	}
	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return Entry{}, false
	}
	return raw.toEntry()
}

func isArray(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '['
}

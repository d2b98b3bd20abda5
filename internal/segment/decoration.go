package segment

// Palette is the list of style tags given to tokens in order.
var Palette = []string{
	"#b0913c",
	"#c7472a",
	"#d17321",
	"#66c92c",
	"#2ad48d",
	"#22c9c9",
	"#1f4eb5",
	"#992bd9",
	"#c41d76",
}

// Decoration is a styled span for an editor integration to paint.
type Decoration struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Style string `json:"style"`
}

// StyleAt returns the style tag of the i-th token.
func StyleAt(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// Decorate returns one decoration per token, in token order.
func Decorate(tokens []Token) []Decoration {
	decorations := make([]Decoration, 0, len(tokens))
	for i, token := range tokens {
		if token.Len() == 0 {
			continue
		}
		decorations = append(decorations, Decoration{
			Start: token.Start,
			End:   token.End,
			Style: StyleAt(i),
		})
	}
	return decorations
}

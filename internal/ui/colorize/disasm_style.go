package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// ListingDark highlights cleaned listings: labels stand out, registers are
// muted and directives kept as data read like strings.
var ListingDark = styles.Register(chroma.MustNewStyle("disasexpl-dark", chroma.StyleEntries{
	chroma.Text:       "#D4D4D4",
	chroma.Background: "bg:#1e1e1e",
	chroma.Comment:    "italic #6A9955",

	chroma.Keyword:       "#FFFFFF",
	chroma.KeywordPseudo: "#C586C0",
	chroma.NameAttribute: "#C586C0", // directives
	chroma.NameFunction:  "#FFFFFF", // mnemonics
	chroma.Name:          "#7C9C9D",
	chroma.NameBuiltin:   "#7C9C9D",
	chroma.NameVariable:  "#7C9C9D", // registers
	chroma.NameConstant:  "#FFD700",
	chroma.NameLabel:     "bold #FFD700",

	chroma.LiteralNumber:    "#FF5F87",
	chroma.LiteralNumberHex: "#FF5F87",

	chroma.Operator:    "#D4D4D4",
	chroma.Punctuation: "#D4D4D4",
	chroma.String:      "#EACD53",
}))

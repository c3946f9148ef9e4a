package lexer

// ASCII lookup tables. Callers bounds-check first:
//
//	if ch < 128 && isDigit[ch] { ... }
//
// Non-ASCII input is only meaningful for the operator glyphs handled in
// lexUnicode.
var (
	isWhitespace [128]bool // space, tab, CR, LF, FF
	isLetter     [128]bool // a-z, A-Z
	isDigit      [128]bool // 0-9
	isIdentStart [128]bool // letter or _
	isIdentPart  [128]bool // letter, digit or _
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)

		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = isLetter[i] || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
	}
}

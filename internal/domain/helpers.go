package domain

// AnonymousNickname replaces author identity on anonymous boards.
const AnonymousNickname = "anonymous"

// Anonymized returns a copy of the card with the author scrubbed. The
// scrub is unconditional for the board, with no exception for the
// author viewing their own card.
func (c Card) Anonymized() Card {
	c.AuthorId = 0
	c.AuthorNickname = AnonymousNickname
	return c
}

// Redacted returns a copy with the writing stripped, leaving only the
// card's identity and position. While private writing hides other
// authors' cards, events on the shared board channel carry this shape
// so no participant receives another author's text.
func (c Card) Redacted() Card {
	c.Content = ""
	c.Memos = nil
	return c
}

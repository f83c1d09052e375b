// Package export renders a board view as CSV, Markdown or HTML.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/retroloop-dev/retroloop/internal/api"
	"github.com/retroloop-dev/retroloop/internal/errors"
)

type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", errors.BadRequest("Unknown export format")
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

func Render(view *api.BoardResponse, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(view)
	case FormatMarkdown:
		return Markdown(view), nil
	case FormatHTML:
		return HTML(view)
	}
	return nil, errors.BadRequest("Unknown export format")
}

// CSV writes one row per card.
func CSV(view *api.BoardResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Column", "Content", "Author", "Votes", "Memos", "Reactions"}); err != nil {
		return nil, err
	}
	for _, column := range view.Columns {
		for _, card := range column.Cards {
			memos := make([]string, 0, len(card.Memos))
			for _, memo := range card.Memos {
				memos = append(memos, memo.Content)
			}
			reactions := make([]string, 0, len(card.Reactions))
			for _, reaction := range card.Reactions {
				reactions = append(reactions, reaction.Emoji)
			}
			row := []string{
				column.Name,
				card.Content,
				card.AuthorNickname,
				strconv.Itoa(card.Votes),
				strings.Join(memos, "; "),
				strings.Join(reactions, " "),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// Markdown renders the board title as a top-level heading and each
// column as a section.
func Markdown(view *api.BoardResponse) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", view.Board.Title)
	for _, column := range view.Columns {
		fmt.Fprintf(&b, "\n## %s\n\n", column.Name)
		if len(column.Cards) == 0 {
			b.WriteString("_No cards_\n")
			continue
		}
		for _, card := range column.Cards {
			fmt.Fprintf(&b, "- %s (%s", card.Content, card.AuthorNickname)
			if card.Votes > 0 {
				fmt.Fprintf(&b, ", %d votes", card.Votes)
			}
			b.WriteString(")\n")
			for _, reaction := range card.Reactions {
				fmt.Fprintf(&b, "  - %s\n", reaction.Emoji)
			}
			for _, memo := range card.Memos {
				fmt.Fprintf(&b, "  - Note: %s\n", memo.Content)
			}
		}
	}

	if len(view.ActionItems) > 0 {
		b.WriteString("\n## Action items\n\n")
		for _, item := range view.ActionItems {
			fmt.Fprintf(&b, "- [%s] %s", item.Status, item.Content)
			if item.AssigneeNickname != "" {
				fmt.Fprintf(&b, " (%s)", item.AssigneeNickname)
			}
			if item.DueDate != nil {
				fmt.Fprintf(&b, " due %s", item.DueDate.Format("2006-01-02"))
			}
			b.WriteString("\n")
		}
	}
	return []byte(b.String())
}

// HTML is the Markdown export rendered and sanitized. The UGC policy
// keeps formatting tags but strips anything executable.
func HTML(view *api.BoardResponse) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(Markdown(view), &buf); err != nil {
		return nil, err
	}
	return bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes()), nil
}

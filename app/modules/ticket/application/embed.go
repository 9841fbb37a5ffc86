package ticketservice

import (
	"fmt"

	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
)

const (
	defaultTicketColor = "#ff0000"

	upvoteEmoji   = "\U0001F44D" // 👍
	downvoteEmoji = "\U0001F44E" // 👎
)

// ticketEmbed renders the structured message mirroring a ticket. The id line
// is omitted until the store has assigned one, which is why creation renders
// twice.
func ticketEmbed(t *guilddb.Ticket) chat.Embed {
	title := "New Suggestion"
	if t.ID != 0 {
		title = fmt.Sprintf("Suggestion #%d", t.ID)
	}
	return chat.Embed{
		Author:      string(t.UserID),
		Title:       title,
		Description: t.Description,
		Footer:      fmt.Sprintf("React with %s or %s to vote", upvoteEmoji, downvoteEmoji),
		Color:       t.Color,
		Timestamp:   t.CreatedAt,
	}
}

package sqlstore

import "time"

const welcomeMessagesTable = "welcome_messages"

type welcomeMessageModel struct {
	GuildID   string    `db:"guild_id"`
	Enabled   bool      `db:"enabled"`
	UpdatedAt time.Time `db:"updated_at"`
}

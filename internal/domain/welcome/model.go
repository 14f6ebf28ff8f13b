package welcome

import "time"

// Toggle records whether join greetings are posted in a guild.
type Toggle struct {
	GuildID   string
	Enabled   bool
	UpdatedAt time.Time
}

// Member describes a user joining a guild.
type Member struct {
	ID        string
	Name      string
	AvatarURL string
}

// Guild is the minimal guild view the greeting needs.
type Guild struct {
	ID              string
	Name            string
	MemberCount     int
	SystemChannelID string
}

// MemberJoin is one membership event.
type MemberJoin struct {
	Guild  Guild
	Member Member
}

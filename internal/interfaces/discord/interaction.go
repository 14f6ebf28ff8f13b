package discord

import (
	"strconv"
	"strings"
)

const (
	interactionTypePing               = 1
	interactionTypeApplicationCommand = 2

	responseTypePong                   = 1
	responseTypeChannelMessage         = 4
	responseTypeDeferredChannelMessage = 5
)

const (
	permissionAdministrator uint64 = 1 << 3
	permissionManageGuild   uint64 = 1 << 5
)

type interaction struct {
	ID            string       `json:"id"`
	ApplicationID string       `json:"application_id"`
	Type          int          `json:"type"`
	Token         string       `json:"token"`
	GuildID       string       `json:"guild_id"`
	ChannelID     string       `json:"channel_id"`
	Member        *member      `json:"member"`
	User          *user        `json:"user"`
	Data          *commandData `json:"data"`
}

type member struct {
	User        user   `json:"user"`
	Nick        string `json:"nick"`
	Permissions string `json:"permissions"`
}

type user struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
}

type commandData struct {
	Name    string          `json:"name"`
	Options []commandOption `json:"options"`
}

type commandOption struct {
	Name  string `json:"name"`
	Type  int    `json:"type"`
	Value any    `json:"value"`
}

type interactionResponse struct {
	Type int           `json:"type"`
	Data *responseData `json:"data,omitempty"`
}

type responseData struct {
	Content string `json:"content,omitempty"`
	Flags   int    `json:"flags,omitempty"`
}

// invoker returns the user behind the interaction in guild and DM contexts.
func (i interaction) invoker() user {
	if i.Member != nil {
		return i.Member.User
	}
	if i.User != nil {
		return *i.User
	}
	return user{}
}

func (i interaction) hasPermission(bit uint64) bool {
	if i.Member == nil {
		return false
	}
	perms, err := strconv.ParseUint(strings.TrimSpace(i.Member.Permissions), 10, 64)
	if err != nil {
		return false
	}
	return perms&permissionAdministrator != 0 || perms&bit != 0
}

func (d *commandData) option(name string) (commandOption, bool) {
	if d == nil {
		return commandOption{}, false
	}
	for _, opt := range d.Options {
		if strings.EqualFold(opt.Name, name) {
			return opt, true
		}
	}
	return commandOption{}, false
}

func (d *commandData) stringOption(name string) string {
	opt, ok := d.option(name)
	if !ok {
		return ""
	}
	switch v := opt.Value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// intOption reports ok=false when the option is absent. Integer options arrive
// as JSON numbers.
func (d *commandData) intOption(name string) (int, bool) {
	opt, ok := d.option(name)
	if !ok {
		return 0, false
	}
	switch v := opt.Value.(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func (d *commandData) boolOption(name string) (bool, bool) {
	opt, ok := d.option(name)
	if !ok {
		return false, false
	}
	v, ok := opt.Value.(bool)
	return v, ok
}

func displayName(u user) string {
	if strings.TrimSpace(u.Username) != "" {
		return u.Username
	}
	return u.GlobalName
}

// avatarURL builds the CDN url of a user's avatar, falling back to the
// default avatar derived from the snowflake.
func avatarURL(u user) string {
	if u.ID == "" {
		return ""
	}
	if u.Avatar != "" {
		return cdnBaseURL + "/avatars/" + u.ID + "/" + u.Avatar + ".png?size=256"
	}
	snowflake, err := strconv.ParseUint(u.ID, 10, 64)
	if err != nil {
		return cdnBaseURL + "/embed/avatars/0.png"
	}
	return cdnBaseURL + "/embed/avatars/" + strconv.FormatUint((snowflake>>22)%6, 10) + ".png"
}

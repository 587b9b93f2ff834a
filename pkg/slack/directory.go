package slack

import (
	"context"
	"net/url"
	"strconv"
)

// userEntry is one member from users.list.
type userEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	Profile  struct {
		RealName string `json:"real_name"`
	} `json:"profile"`
}

// channelEntry is one channel from conversations.list.
type channelEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// usergroupEntry is one group from usergroups.list.
type usergroupEntry struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

// displayName picks the best name for a user entry, falling back to the
// raw ID so a sparse profile never produces an empty directory value.
func (u userEntry) displayName() string {
	switch {
	case u.RealName != "":
		return u.RealName
	case u.Profile.RealName != "":
		return u.Profile.RealName
	case u.Name != "":
		return u.Name
	default:
		return u.ID
	}
}

// FetchUsers builds the user directory by paginating users.list to
// exhaustion. On a fetch failure the entries collected so far are returned
// with the error; the directory is usable but possibly partial.
func (c *Client) FetchUsers(ctx context.Context) (map[string]string, error) {
	users := make(map[string]string)
	base := url.Values{}
	base.Set("limit", strconv.Itoa(c.pageSize))

	err := c.paginate(ctx, "users.list", base, func(resp *apiResponse) bool {
		for _, member := range resp.Members {
			users[member.ID] = member.displayName()
		}
		return true
	})
	return users, err
}

// FetchChannels builds the channel directory from conversations.list,
// covering public and private channels.
func (c *Client) FetchChannels(ctx context.Context) (map[string]string, error) {
	channels := make(map[string]string)
	base := url.Values{}
	base.Set("limit", strconv.Itoa(c.pageSize))
	base.Set("types", "public_channel,private_channel")

	err := c.paginate(ctx, "conversations.list", base, func(resp *apiResponse) bool {
		for _, ch := range resp.Channels {
			channels[ch.ID] = ch.Name
		}
		return true
	})
	return channels, err
}

// FetchUsergroups builds the usergroup directory. usergroups.list is not
// paginated; workspaces have few groups.
func (c *Client) FetchUsergroups(ctx context.Context) (map[string]string, error) {
	groups := make(map[string]string)

	resp, err := c.get(ctx, "usergroups.list", url.Values{})
	if err != nil {
		return groups, err
	}
	for _, g := range resp.Usergroups {
		groups[g.ID] = g.Handle
	}
	return groups, nil
}

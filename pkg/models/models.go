package models

// Group is a member list section header such as "Online — 12"
type Group struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// EntryKind tells whether a member list entry is a header or a row
type EntryKind string

const (
	EntryGroup  EntryKind = "group"
	EntryMember EntryKind = "member"
)

// MemberEntry is one rendered item of a member list. Headers and rows share
// one identity space so that either kind of discovery counts as progress.
type MemberEntry struct {
	Kind     EntryKind
	Group    string
	Count    int
	MemberID string
	Username string
}

// Members is the grouped member list of a server
type Members struct {
	Groups        []Group  `json:"groups"`
	OnlineMembers []Member `json:"online_members"`
}

// MemberStatus is the presence of one member as read from the roster
type MemberStatus struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

// LastActive is a member's status and when it was last seen in it
type LastActive struct {
	Username string `json:"username"`
	Status   string `json:"status"`
	LastSeen string `json:"last_seen"`
}

type Message struct {
	Username    string   `json:"username"`
	Timestamp   string   `json:"timestamp"`
	Content     string   `json:"content"`
	Attachments []string `json:"attachments"`
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// ChannelCategory groups channels under a sidebar category
type ChannelCategory struct {
	Category string    `json:"category"`
	Channels []Channel `json:"channels"`
}

// ServerInfo is everything scraped from one Discord server
type ServerInfo struct {
	ServerName string                `json:"server_name"`
	ServerID   string                `json:"server_id"`
	URL        string                `json:"url"`
	Channels   []ChannelCategory     `json:"channels"`
	Members    Members               `json:"members"`
	LastActive map[string]LastActive `json:"last_active"`
	Messages   []Message             `json:"messages"`
}

// Post is the engagement read from one Instagram post
type Post struct {
	URL      string `json:"url"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
}

// Profile is everything scraped from one Instagram profile
type Profile struct {
	Username          string  `json:"username"`
	ProfileURL        string  `json:"profile_url"`
	ProfileImage      string  `json:"profile_image"`
	Bio               string  `json:"bio"`
	Posts             string  `json:"posts"`
	Followers         string  `json:"followers"`
	Following         string  `json:"following"`
	Private           bool    `json:"private"`
	RecentPosts       []Post  `json:"recent_posts"`
	AverageEngagement float64 `json:"average_engagement"`
}

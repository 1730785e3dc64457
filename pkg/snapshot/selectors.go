package snapshot

// Discord and Instagram DOM selectors.
// Both sites ship hashed class names that change between deploys; the
// selectors only rely on stable prefixes, ids and aria labels.
// Update these when scraping breaks.

const (
	// Discord login
	DiscordEmailInput    = `input[name='email']`
	DiscordPasswordInput = `input[name='password']`
	DiscordSubmitButton  = `button[type='submit']`
	DiscordLoggedInPath  = `channels/@me`

	// Discord server page. %s is the open channel id.
	DiscordServerHeader = `div[id*='chat-messages-%s'] h3`
	// %s is the server name
	DiscordServerNav   = `nav[aria-label*='%s (server)']`
	DiscordChannelItem = `ul[aria-label='Channels'] li[data-dnd-name]`
	DiscordChannelLink = `a`

	// Discord member list. %s is the server id.
	DiscordMemberListToggle = `div[aria-label*='Show Member List']`
	DiscordMemberList       = `div[data-list-id='members-%s']`
	DiscordGroupHeader      = `h3[class*='membersGroup_']`
	DiscordMemberRow        = `div[class*='member_']`
	DiscordRosterRow        = `div[class*='member_'][data-list-item-id]`
	DiscordUsername         = `span[class*='username']`

	// Discord chat
	DiscordChatList        = `ol[data-list-id='chat-messages']`
	DiscordMessageItem     = `li[id^='chat-messages-']`
	DiscordMessageUsername = `span[id^='message-username-'], span[class*='username_']`
	DiscordMessageTime     = `time`
	DiscordMessageContent  = `div[id^='message-content-'], div[class*='messageContent_']`
	DiscordAttachment      = `img[src*='cdn.discordapp.com'], a[href*='cdn.discordapp.com/attachments']`
)

const (
	// Instagram login
	InstagramUsernameInput = `input[name='username']`
	InstagramPasswordInput = `input[name='password']`
	InstagramSubmitButton  = `button[type='submit']`
	InstagramLoginPath     = `/accounts/login`
	InstagramBadPassword   = `Sorry, your password was incorrect`

	// Instagram profile
	InstagramHeader       = `header`
	InstagramUsername     = `header h2`
	InstagramProfileImage = `img[alt*='profile picture']`
	InstagramBio          = `header h1, header span._ap3a`
	InstagramStats        = `header ul li`
	InstagramPrivateText  = `This Account is Private`

	// Instagram post grid
	InstagramScroller   = `html`
	InstagramPostLink   = `a[href*='/p/']`
	InstagramPostAnchor = `a[href*='/p/%s/']`
	InstagramHoverText  = `li span, span[class*='xdj266r']`
)

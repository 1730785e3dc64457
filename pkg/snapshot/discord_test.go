package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"socialharvest/pkg/logger"
	"socialharvest/pkg/models"
)

const memberList = `
<div data-list-id="members-111">
  <div class="content_abc">
    <h3 class="membersGroup_5d4"><span>Online — 12 members</span></h3>
    <div class="member_a1 online_x" data-list-item-id="members-111___201"><span class="username_q">ana</span></div>
    <div class="member_a1 idle_x" data-list-item-id="members-111___202"><span class="username_q">bo</span></div>
    <div class="member_a1" style="display:none" data-list-item-id="members-111___203"><span class="username_q">ghost</span></div>
    <h3 class="membersGroup_5d4">weird text</h3>
    <h3 class="membersGroup_5d4">Moderators - 2 members</h3>
    <div class="member_a1 dnd_x"><span class="username_q">cy</span></div>
    <h3 class="membersGroup_5d4">Offline — 40 members</h3>
    <div class="member_a1 offline_x" data-list-item-id="members-111___299"><span class="username_q">dee</span></div>
  </div>
</div>`

func TestMembers(t *testing.T) {
	tl := logger.NewTestLogger()
	p := New(tl)

	records := p.Members(memberList)

	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{
		"group:Online",
		"member:members-111___201",
		"member:members-111___202",
		"group:Moderators",
		"member:temp_Moderators_0",
		"group:Offline",
	}, ids)

	assert.Equal(t, models.MemberEntry{Kind: models.EntryGroup, Group: "Online", Count: 12}, records[0].Payload)
	assert.Equal(t, models.MemberEntry{Kind: models.EntryMember, MemberID: "members-111___201", Username: "ana"}, records[1].Payload)
	assert.Equal(t, "cy", records[4].Payload.Username)

	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "weird text", warns[0].Fields["text"])
}

func TestMembersWellFormedAndMalformedHeader(t *testing.T) {
	p := New(logger.NewNopLogger())
	records := p.Members(`
		<h3 class="membersGroup_1">Online — 12 members</h3>
		<h3 class="membersGroup_1">weird text</h3>`)

	require.Len(t, records, 1)
	assert.Equal(t, "Online", records[0].Payload.Group)
	assert.Equal(t, 12, records[0].Payload.Count)
}

func TestMembersSkipsRowsUnderMalformedHeader(t *testing.T) {
	tl := logger.NewTestLogger()
	p := New(tl)
	records := p.Members(`
		<h3 class="membersGroup_1">Online — 1 member</h3>
		<div class="member_a1" data-list-item-id="1"><span class="username_q">alice</span></div>
		<h3 class="membersGroup_1">weird text</h3>
		<div class="member_a1"><span class="username_q">bob</span></div>
		<h3 class="membersGroup_1">Admins — 1 member</h3>
		<div class="member_a1" data-list-item-id="3"><span class="username_q">carol</span></div>`)

	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"group:Online", "member:1", "group:Admins", "member:3"}, ids)
	assert.Len(t, tl.GetMessagesByLevel("WARN"), 1)
}

func TestRosterSkipsRowsWithoutID(t *testing.T) {
	tl := logger.NewTestLogger()
	p := New(tl)
	records := p.Roster(`
		<div class="member_a1 online_x" data-list-item-id="members-1___7"><span class="username_q">ana</span></div>
		<div class="member_a1 online_x" data-list-item-id=""><span class="username_q">bo</span></div>
		<div class="member_a1 idle_x" data-list-item-id=" "><span class="username_q">cy</span></div>`)

	require.Len(t, records, 1)
	assert.Equal(t, "members-1___7", records[0].ID)

	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 2)
	assert.Equal(t, "bo", warns[0].Fields["text"])
}

func TestMembersEmptySnapshot(t *testing.T) {
	p := New(logger.NewNopLogger())
	assert.Empty(t, p.Members(""))
	assert.Empty(t, p.Members(`<div data-list-id="members-1"></div>`))
}

func TestRoster(t *testing.T) {
	p := New(logger.NewNopLogger())
	records := p.Roster(memberList)

	statuses := map[string]models.MemberStatus{}
	for _, r := range records {
		statuses[r.ID] = r.Payload
	}
	assert.Len(t, records, 3)
	assert.Equal(t, models.MemberStatus{Username: "ana", Status: "online"}, statuses["members-111___201"])
	assert.Equal(t, models.MemberStatus{Username: "bo", Status: "idle"}, statuses["members-111___202"])
	assert.Equal(t, models.MemberStatus{Username: "dee", Status: "offline"}, statuses["members-111___299"])
}

func TestChannels(t *testing.T) {
	p := New(logger.NewNopLogger())
	categories := p.Channels(`
<nav aria-label="Gophers (server)">
  <ul aria-label="Channels">
    <li data-dnd-name="rules"><a href="/channels/111/900" data-list-item-id="channels___900">rules</a></li>
    <li draggable="true" data-dnd-name="Text Channels"></li>
    <li data-dnd-name="general"><a href="/channels/111/901" data-list-item-id="channels___901">general</a></li>
    <li data-dnd-name="help"><a href="https://discord.com/channels/111/902">help</a></li>
    <li draggable="true" data-dnd-name="Empty"></li>
    <li draggable="true" data-dnd-name="Voice Channels"></li>
    <li data-dnd-name="Lounge"><a href="/channels/111/903" data-list-item-id="channels___903">Lounge</a></li>
  </ul>
</nav>`)

	require.Len(t, categories, 3)
	assert.Equal(t, UncategorizedChannels, categories[0].Category)
	assert.Equal(t, "Text Channels", categories[1].Category)
	assert.Equal(t, "Voice Channels", categories[2].Category)

	assert.Equal(t, models.Channel{
		ID:   "channels___901",
		Name: "general",
		URL:  "https://discord.com/channels/111/901",
		Type: "text",
	}, categories[1].Channels[0])
	assert.Equal(t, "help", categories[1].Channels[1].ID, "falls back to the channel name")
	assert.Equal(t, "voice", categories[2].Channels[0].Type)
}

func TestMessages(t *testing.T) {
	p := New(logger.NewNopLogger())
	messages := p.Messages(`
<ol data-list-id="chat-messages">
  <li id="chat-messages-1-10">
    <h3><span id="message-username-10" class="username_x">ana</span><time datetime="2026-01-02T10:00:00Z" aria-label="Today at 10:00">10:00</time></h3>
    <div id="message-content-10">hello <b>all</b></div>
  </li>
  <li id="chat-messages-1-11">
    <time aria-label="10:01"></time>
    <div id="message-content-11">follow up</div>
    <img src="https://cdn.discordapp.com/attachments/1/2/cat.png">
    <a href="https://cdn.discordapp.com/attachments/1/3/report.pdf">report.pdf</a>
    <img src="https://example.com/emoji.png">
  </li>
  <li id="chat-messages-1-12">
    <span class="username_x">bo</span>
    <div class="messageContent_y">no time</div>
  </li>
</ol>`)

	require.Len(t, messages, 3)
	assert.Equal(t, models.Message{
		Username:    "ana",
		Timestamp:   "2026-01-02T10:00:00Z",
		Content:     "hello all",
		Attachments: []string{},
	}, messages[0])

	assert.Equal(t, "ana", messages[1].Username)
	assert.Equal(t, "10:01", messages[1].Timestamp)
	assert.Equal(t, []string{
		"https://cdn.discordapp.com/attachments/1/2/cat.png",
		"https://cdn.discordapp.com/attachments/1/3/report.pdf",
	}, messages[1].Attachments)

	assert.Equal(t, "bo", messages[2].Username)
	assert.Equal(t, "Unknown", messages[2].Timestamp)
	assert.Equal(t, "no time", messages[2].Content)
}

func TestServerAndChannelID(t *testing.T) {
	tests := []struct {
		url     string
		server  string
		channel string
	}{
		{"https://discord.com/channels/111/222", "111", "222"},
		{"https://canary.discord.com/channels/111/222/", "111", "222"},
		{"https://discord.com/channels/111", "111", "111"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.server, ServerID(tt.url))
			assert.Equal(t, tt.channel, ChannelID(tt.url))
		})
	}
}

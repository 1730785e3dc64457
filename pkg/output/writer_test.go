package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"socialharvest/pkg/models"
)

func TestNewWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	w, err := NewWriter(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, w.Dir())
}

func TestWriteDiscord(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	servers := []models.ServerInfo{{
		ServerName: "Gophers",
		ServerID:   "111",
		URL:        "https://discord.com/channels/111/222",
		Channels: []models.ChannelCategory{{
			Category: "Text Channels",
			Channels: []models.Channel{{ID: "333", Name: "general", URL: "https://discord.com/channels/111/333", Type: "text"}},
		}},
		Members: models.Members{
			Groups:        []models.Group{{Group: "Online", Count: 1}},
			OnlineMembers: []models.Member{{ID: "201", Username: "ana"}},
		},
		LastActive: map[string]models.LastActive{
			"201": {Username: "ana", Status: "online", LastSeen: "2026-05-04T07:30:00Z"},
		},
		Messages: []models.Message{{Username: "ana", Timestamp: "Unknown", Content: "a <b> & c", Attachments: []string{}}},
	}}

	path, err := w.WriteDiscord("discord_data.json", servers)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir(), "discord_data.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n    {\n        \"server_name\": \"Gophers\""))
	assert.Contains(t, string(raw), `"a <b> & c"`)
	assert.Contains(t, string(raw), `"online_members"`)

	var decoded []models.ServerInfo
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, servers, decoded)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteDiscordEmpty(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	path, err := w.WriteDiscord("discord_data.json", nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestWriteInstagram(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	profiles := []models.Profile{
		{
			Username:     "gopher",
			ProfileURL:   "https://www.instagram.com/gopher/",
			ProfileImage: "https://cdn.example/gopher.jpg",
			Bio:          "digging, tunnels\nand more",
			Posts:        "3",
			Followers:    "1.2k",
			Following:    "10",
			RecentPosts: []models.Post{
				{URL: "https://www.instagram.com/p/AAA/", Likes: 1204, Comments: 33},
			},
			AverageEngagement: 1237,
		},
		{
			Username:          "hidden",
			ProfileURL:        "https://www.instagram.com/hidden/",
			ProfileImage:      "N/A",
			Bio:               "No bio available",
			Posts:             "N/A",
			Followers:         "N/A",
			Following:         "N/A",
			Private:           true,
			AverageEngagement: 0.33,
		},
	}

	path, err := w.WriteInstagram("instagram_data.csv", profiles)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, InstagramHeader, rows[0])
	assert.Equal(t, []string{
		"gopher",
		"https://www.instagram.com/gopher/",
		"https://cdn.example/gopher.jpg",
		"digging, tunnels\nand more",
		"3", "1.2k", "10",
		"false",
		`[{"url":"https://www.instagram.com/p/AAA/","likes":1204,"comments":33}]`,
		"1237",
	}, rows[1])
	assert.Equal(t, "true", rows[2][7])
	assert.Equal(t, "[]", rows[2][8])
	assert.Equal(t, "0.33", rows[2][9])

	assert.Equal(t, []string{path}, w.Written())
}

func TestWriteReplacesExistingFile(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	target := filepath.Join(w.Dir(), "instagram_data.csv")
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0644))

	_, err = w.WriteInstagram("instagram_data.csv", nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(InstagramHeader, ",")+"\n", string(raw))
}

package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"socialharvest/pkg/logger"
)

func TestPostLinks(t *testing.T) {
	p := New(logger.NewNopLogger())
	records := p.PostLinks(`
<main>
  <a href="/p/ABC123/"><img src="1.jpg"></a>
  <a href="/p/DEF456/?img_index=1"><img src="2.jpg"></a>
  <a href="https://www.instagram.com/p/ABC123/#comments"></a>
  <a href="/reel/XYZ/"></a>
  <a href="/dualipa/"></a>
  <div style="display:none"><a href="/p/HIDDEN/"></a></div>
</main>`)

	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
		assert.Equal(t, r.ID, r.Payload)
	}
	assert.Equal(t, []string{
		"https://www.instagram.com/p/ABC123/",
		"https://www.instagram.com/p/DEF456/",
		"https://www.instagram.com/p/ABC123/",
	}, ids)
}

func TestCanonicalPostURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/p/X1/", CanonicalPostURL("/p/X1/?utm=1"))
	assert.Equal(t, "https://www.instagram.com/p/X1/", CanonicalPostURL("https://www.instagram.com/p/X1/"))
	assert.Equal(t, "", CanonicalPostURL("/stories/x/"))
	assert.Equal(t, "X1", PostShortcode("https://www.instagram.com/p/X1/"))
	assert.Equal(t, "", PostShortcode("https://www.instagram.com/dualipa/"))
}

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/dualipa/", ProfileURL("dualipa"))
	assert.Equal(t, "https://www.instagram.com/dualipa/", ProfileURL("@dualipa"))
	assert.Equal(t, "https://www.instagram.com/x/", ProfileURL("https://www.instagram.com/x/"))
}

func TestIsPrivate(t *testing.T) {
	assert.True(t, IsPrivate("Follow\nThis account is private\nFollow to see"))
	assert.False(t, IsPrivate("12 posts"))
}

func TestProfile(t *testing.T) {
	p := New(logger.NewNopLogger())
	profile := p.Profile(`
<header>
  <img alt="dualipa's profile picture" src="https://cdn.example/pp.jpg">
  <h2>dualipa</h2>
  <ul>
    <li><span>1,932 posts</span></li>
    <li><span>88.5M followers</span></li>
    <li><span>612 following</span></li>
  </ul>
  <h1>RADICAL OPTIMISM</h1>
</header>`)

	assert.Equal(t, "dualipa", profile.Username)
	assert.Equal(t, "https://cdn.example/pp.jpg", profile.ProfileImage)
	assert.Equal(t, "RADICAL OPTIMISM", profile.Bio)
	assert.Equal(t, "1,932", profile.Posts)
	assert.Equal(t, "88.5M", profile.Followers)
	assert.Equal(t, "612", profile.Following)
}

func TestProfileDefaults(t *testing.T) {
	tl := logger.NewTestLogger()
	p := New(tl)
	profile := p.Profile(`<header><ul><li>3 posts</li></ul></header>`)

	assert.Equal(t, "N/A", profile.Username)
	assert.Equal(t, "N/A", profile.ProfileImage)
	assert.Equal(t, NoBio, profile.Bio)
	assert.Equal(t, "N/A", profile.Posts)
	assert.Equal(t, "N/A", profile.Following)
	assert.Len(t, tl.GetMessagesByLevel("WARN"), 1)
}

func TestHoverCounts(t *testing.T) {
	p := New(logger.NewNopLogger())

	likes, comments, ok := p.HoverCounts(`
<a href="/p/ABC/">
  <div><ul>
    <li><span><span>12.4k</span></span><span class="icon"></span></li>
    <li><span><span>1,204</span></span></li>
  </ul></div>
</a>`)
	require.True(t, ok)
	assert.Equal(t, 12400, likes)
	assert.Equal(t, 1204, comments)

	_, _, ok = p.HoverCounts(`<a href="/p/ABC/"><img src="x.jpg"></a>`)
	assert.False(t, ok)
}

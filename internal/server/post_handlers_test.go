package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"

	"mmorpgboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postDetail struct {
	Post          models.Post    `json:"post"`
	CategoryLabel string         `json:"category_label"`
	Replies       []models.Reply `json:"replies"`
}

type postPage struct {
	Posts      []models.Post `json:"posts"`
	Page       int           `json:"page"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
}

func tankAd(title string) url.Values {
	return url.Values{"title": {title}, "content": {"Raid tonight"}, "category": {"TANK"}}
}

func (ts *testServer) getPost(t *testing.T, id uint) postDetail {
	t.Helper()
	resp := ts.do(t, http.MethodGet, fmt.Sprintf("/post/%d", id), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d postDetail
	decode(t, resp, &d)
	return d
}

func (ts *testServer) listPosts(t *testing.T, query string) postPage {
	t.Helper()
	resp := ts.do(t, http.MethodGet, "/"+query, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p postPage
	decode(t, resp, &p)
	return p
}

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	bob := ts.signIn(t, "bob")

	tests := []struct {
		name           string
		form           url.Values
		cookie         bool
		expectedStatus int
	}{
		{"Success", tankAd("Need a tank"), true, http.StatusSeeOther},
		{"No Session", tankAd("Need a tank"), false, http.StatusUnauthorized},
		{"Missing Title", url.Values{"content": {"c"}, "category": {"TANK"}}, true, http.StatusBadRequest},
		{"Unknown Category", url.Values{"title": {"t"}, "content": {"c"}, "category": {"BARD"}}, true, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookie := bob
			if !tt.cookie {
				cookie = nil
			}
			resp := ts.do(t, http.MethodPost, "/post/add", tt.form, cookie)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusSeeOther {
				assert.Equal(t, "/", resp.Header.Get("Location"))
			}
		})
	}

	page := ts.listPosts(t, "")
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Need a tank", page.Posts[0].Title)
	assert.True(t, page.Posts[0].IsActive)
	assert.Equal(t, "bob", page.Posts[0].User.Username)
}

func TestDaveCannotTouchBobsPost(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	bob := ts.signIn(t, "bob")
	dave := ts.signIn(t, "dave")

	resp := ts.do(t, http.MethodPost, "/post/add", tankAd("Need a tank"), bob)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	before := ts.getPost(t, 1)

	resp = ts.do(t, http.MethodPost, "/post/1/edit", tankAd("Hijacked"), dave)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = ts.do(t, http.MethodPost, "/post/1/delete", nil, dave)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	after := ts.getPost(t, 1)
	assert.Equal(t, before.Post.Title, after.Post.Title)
	assert.Equal(t, before.Post.Content, after.Post.Content)
	assert.Equal(t, before.Post.IsActive, after.Post.IsActive)
	assert.True(t, before.Post.UpdatedAt.Equal(after.Post.UpdatedAt))
}

func TestUpdateAndDeletePost(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	bob := ts.signIn(t, "bob")

	resp := ts.do(t, http.MethodPost, "/post/add", tankAd("Need a tank"), bob)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	form := url.Values{"title": {"Need a healer"}, "content": {"<b>Raid</b><script>x()</script>"}, "category": {"HEAL"}}
	resp = ts.do(t, http.MethodPost, "/post/1/edit", form, bob)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	d := ts.getPost(t, 1)
	assert.Equal(t, "Need a healer", d.Post.Title)
	assert.Equal(t, "Healers", d.CategoryLabel)
	assert.NotContains(t, d.Post.Content, "script")
	assert.False(t, d.Post.IsActive, "unchecked is_active deactivates the ad")

	form.Set("is_active", "on")
	resp = ts.do(t, http.MethodPost, "/post/1/edit", form, bob)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, ts.getPost(t, 1).Post.IsActive)

	resp = ts.do(t, http.MethodPost, "/post/1/delete", nil, bob)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/post/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, ts.listPosts(t, "").Posts)
}

func TestMissingPostWinsOverOwnership(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	dave := ts.signIn(t, "dave")

	resp := ts.do(t, http.MethodPost, "/post/42/edit", tankAd("x"), dave)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/post/42/delete", nil, dave)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/post/abc/delete", nil, dave)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListPostsPagination(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	bob := ts.signIn(t, "bob")

	for i := 1; i <= 12; i++ {
		resp := ts.do(t, http.MethodPost, "/post/add", tankAd(fmt.Sprintf("Ad %d", i)), bob)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}

	first := ts.listPosts(t, "")
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, int64(12), first.Total)
	assert.Equal(t, 2, first.TotalPages)
	assert.True(t, first.HasNext)
	assert.Equal(t, "Ad 12", first.Posts[0].Title)

	second := ts.listPosts(t, "?page=2")
	require.Len(t, second.Posts, 2)
	assert.Equal(t, "Ad 1", second.Posts[1].Title)

	for _, q := range []string{"?page=3", "?page=abc", "?page=0"} {
		resp := ts.do(t, http.MethodGet, "/"+q, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, q)
	}
}

func TestEmptyBoard(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	page := ts.listPosts(t, "")
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.Page)
}

func TestPublicPagesHideEmails(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	bob := ts.signIn(t, "bob")
	carol := ts.signIn(t, "carol")

	require.Equal(t, http.StatusSeeOther, ts.do(t, http.MethodPost, "/post/add", tankAd("Need a tank"), bob).StatusCode)
	require.Equal(t, http.StatusSeeOther, ts.do(t, http.MethodPost, "/post/1/reply", url.Values{"text": {"I can tank"}}, carol).StatusCode)

	pages := []struct {
		path     string
		cookie   *http.Cookie
		username string
	}{
		{"/", nil, "bob"},
		{"/post/1", nil, "carol"},
		{"/my-replies", bob, "carol"},
	}
	for _, p := range pages {
		t.Run(p.path, func(t *testing.T) {
			resp := ts.do(t, http.MethodGet, p.path, nil, p.cookie)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), `"username":"`+p.username+`"`)
			assert.NotContains(t, string(body), "@")
		})
	}
}

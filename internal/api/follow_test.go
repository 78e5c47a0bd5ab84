package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/models"
)

func TestFollow_RequiresAuthentication(t *testing.T) {
	env := setupTestEnv(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := env.do(t, method, "/v1/follow/", `{"following":"ann"}`, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, method)
		assert.Equal(t, `Bearer realm="api"`, w.Header().Get("WWW-Authenticate"))
	}
}

func TestFollow_Create(t *testing.T) {
	env := setupTestEnv(t)
	leo := env.createUser(t, "leo")
	env.createUser(t, "ann")
	token := env.token(t, leo)

	w := env.do(t, http.MethodPost, "/v1/follow/", `{"following":"ann","user":"ann"}`, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, map[string]interface{}{"user": "leo", "following": "ann"}, decodeMap(t, w))

	tests := []struct {
		name string
		body string
		want map[string]interface{}
	}{
		{
			name: "duplicate",
			body: `{"following":"ann"}`,
			want: map[string]interface{}{"non_field_errors": []interface{}{"The fields user, following must make a unique set."}},
		},
		{
			name: "self",
			body: `{"following":"leo"}`,
			want: map[string]interface{}{"following": []interface{}{"Request user cannot follow himself."}},
		},
		{
			name: "missing",
			body: `{}`,
			want: map[string]interface{}{"following": []interface{}{"This field is required."}},
		},
		{
			name: "unknown user",
			body: `{"following":"ghost"}`,
			want: map[string]interface{}{"following": []interface{}{"Object with username=ghost does not exist."}},
		},
		{
			name: "null",
			body: `{"following":null}`,
			want: map[string]interface{}{"following": []interface{}{"This field may not be null."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/v1/follow/", tt.body, token)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.want, decodeMap(t, w))
		})
	}
}

func TestFollow_ModelGuardRejectsSelfFollow(t *testing.T) {
	env := setupTestEnv(t)
	leo := env.createUser(t, "leo")

	err := db.NewFollowRepository(env.repo).Create(context.Background(), &models.Follow{UserID: leo.ID, FollowingID: leo.ID})
	assert.ErrorIs(t, err, models.ErrSelfFollow)
}

func TestFollow_ListOwnAndSearch(t *testing.T) {
	env := setupTestEnv(t)
	leo := env.createUser(t, "leo")
	ann := env.createUser(t, "ann")
	env.createUser(t, "Annabel")
	env.createUser(t, "bob")

	leoToken := env.token(t, leo)
	for _, name := range []string{"ann", "Annabel", "bob"} {
		w := env.do(t, http.MethodPost, "/v1/follow/", map[string]string{"following": name}, leoToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w := env.do(t, http.MethodPost, "/v1/follow/", `{"following":"bob"}`, env.token(t, ann))
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"ann", "Annabel", "bob"}},
		{"case insensitive", "?search=ANN", []string{"ann", "Annabel"}},
		{"terms and-ed", "?search=ann,bel", []string{"Annabel"}},
		{"space separated", "?search=an%20bel", []string{"Annabel"}},
		{"no match", "?search=zed", []string{}},
		{"wildcard is literal", "?search=%25", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/v1/follow/"+tt.query, nil, leoToken)
			require.Equal(t, http.StatusOK, w.Code)

			follows := decodeList(t, w)
			got := make([]string, 0, len(follows))
			for _, f := range follows {
				assert.Equal(t, "leo", f["user"])
				got = append(got, f["following"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}

	w = env.do(t, http.MethodGet, "/v1/follow/", nil, env.token(t, ann))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []map[string]interface{}{{"user": "ann", "following": "bob"}}, decodeList(t, w))
}

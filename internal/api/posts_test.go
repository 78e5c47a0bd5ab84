package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steemit/yatube/internal/permissions"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}Z$`)

func TestPosts_ListAnonymous(t *testing.T) {
	env := setupTestEnv(t)
	leo := env.createUser(t, "leo")
	env.createPost(t, leo, "first")
	env.createPost(t, leo, "second")

	w := env.do(t, http.MethodGet, "/v1/posts/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	posts := decodeList(t, w)
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0]["text"])
	assert.Equal(t, "leo", posts[0]["author"])
	assert.Nil(t, posts[0]["image"])
	assert.Nil(t, posts[0]["group"])
	assert.Regexp(t, timestampPattern, posts[0]["pub_date"])
}

func TestPosts_Pagination(t *testing.T) {
	env := setupTestEnv(t)
	leo := env.createUser(t, "leo")
	for i := 1; i <= 3; i++ {
		env.createPost(t, leo, fmt.Sprintf("post %d", i))
	}

	w := env.do(t, http.MethodGet, "/v1/posts/?limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeMap(t, w)
	assert.EqualValues(t, 3, page["count"])
	assert.Equal(t, "http://example.com/v1/posts/?limit=2&offset=2", page["next"])
	assert.Nil(t, page["previous"])
	assert.Len(t, page["results"], 2)

	w = env.do(t, http.MethodGet, "/v1/posts/?limit=2&offset=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page = decodeMap(t, w)
	assert.Nil(t, page["next"])
	assert.Equal(t, "http://example.com/v1/posts/?limit=2", page["previous"])
	results := page["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "post 3", results[0].(map[string]interface{})["text"])

	// a limit past the end of the table has no next page
	w = env.do(t, http.MethodGet, "/v1/posts/?limit=9223372036854775807&offset=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page = decodeMap(t, w)
	assert.Nil(t, page["next"])
	assert.Equal(t, "http://example.com/v1/posts/?limit=9223372036854775807", page["previous"])
	assert.Len(t, page["results"], 2)

	// an unusable limit falls back to the plain list
	w = env.do(t, http.MethodGet, "/v1/posts/?limit=abc", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 3)
}

func TestPosts_Create(t *testing.T) {
	env := setupTestEnv(t)
	leo := env.createUser(t, "leo")
	group := env.createGroup(t, "Cats", "cats")
	token := env.token(t, leo)

	tests := []struct {
		name       string
		body       string
		token      string
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{
			name:       "anonymous",
			body:       `{"text":"hello"}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]interface{}{"detail": permissions.MessageNotAuthenticated},
		},
		{
			name:       "missing text",
			body:       `{}`,
			token:      token,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"text": []interface{}{"This field is required."}},
		},
		{
			name:       "blank text",
			body:       `{"text":"  "}`,
			token:      token,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"text": []interface{}{"This field may not be blank."}},
		},
		{
			name:       "unknown group",
			body:       `{"text":"hello","group":99}`,
			token:      token,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"group": []interface{}{`Invalid pk "99" - object does not exist.`}},
		},
		{
			name:       "not a file",
			body:       `{"text":"hello","image":"picture.png"}`,
			token:      token,
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]interface{}{"image": []interface{}{
				"The submitted data was not a file. Check the encoding type on the form.",
			}},
		},
		{
			name:       "malformed json",
			body:       `{"text":`,
			token:      token,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not an object",
			body:       `["hello"]`,
			token:      token,
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]interface{}{"non_field_errors": []interface{}{
				"Invalid data. Expected a dictionary, but got list.",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/v1/posts/", tt.body, tt.token)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantBody != nil {
				assert.Equal(t, tt.wantBody, decodeMap(t, w))
			}
		})
	}

	t.Run("created", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/v1/posts/", map[string]interface{}{
			"text":     "  hello world ",
			"group":    group.ID,
			"author":   "mallory",
			"pub_date": "2000-01-01T00:00:00Z",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		body := decodeMap(t, w)
		assert.Equal(t, "hello world", body["text"])
		assert.Equal(t, "leo", body["author"])
		assert.EqualValues(t, group.ID, body["group"])
		assert.Nil(t, body["image"])
		assert.Regexp(t, timestampPattern, body["pub_date"])
		assert.NotEqual(t, "2000-01-01T00:00:00.000000Z", body["pub_date"])
	})
}

func TestPosts_CreateWithBase64Image(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, env.createUser(t, "leo"))

	w := env.do(t, http.MethodPost, "/v1/posts/", map[string]interface{}{
		"text":  "with picture",
		"image": "data:image/png;base64," + pngBase64,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	image, ok := decodeMap(t, w)["image"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(image, mediaURL+"posts/"), image)
	assert.Equal(t, ".png", filepath.Ext(image))

	stored := filepath.Join(env.store.Root(), filepath.FromSlash(strings.TrimPrefix(image, mediaURL)))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	want, _ := base64.StdEncoding.DecodeString(pngBase64)
	assert.Equal(t, want, data)

	w = env.do(t, http.MethodGet, "/media/"+strings.TrimPrefix(image, mediaURL), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPosts_CreateWithInvalidImage(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, env.createUser(t, "leo"))

	payload := base64.StdEncoding.EncodeToString([]byte("definitely not an image"))
	w := env.do(t, http.MethodPost, "/v1/posts/", map[string]interface{}{
		"text":  "broken",
		"image": "data:image/png;base64," + payload,
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"image": []interface{}{
		"Upload a valid image. The file you uploaded was either not an image or a corrupted image.",
	}}, decodeMap(t, w))
}

func TestPosts_CreateMultipart(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, env.createUser(t, "leo"))

	png, err := base64.StdEncoding.DecodeString(pngBase64)
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("text", "uploaded"))
	part, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/posts/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.serve(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeMap(t, w)
	assert.Equal(t, "uploaded", body["text"])
	assert.True(t, strings.HasSuffix(body["image"].(string), ".png"))
}

func TestPosts_AuthorPermissions(t *testing.T) {
	env := setupTestEnv(t)
	leo := env.createUser(t, "leo")
	ann := env.createUser(t, "ann")
	post := env.createPost(t, leo, "leo's post")
	path := fmt.Sprintf("/v1/posts/%d/", post.ID)
	annToken := env.token(t, ann)
	leoToken := env.token(t, leo)

	t.Run("anyone can read", func(t *testing.T) {
		w := env.do(t, http.MethodGet, path, nil, annToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "leo's post", decodeMap(t, w)["text"])
	})

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run("other user "+method, func(t *testing.T) {
			w := env.do(t, method, path, `{"text":"hijacked"}`, annToken)
			require.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, map[string]interface{}{"detail": permissions.MessageNotAuthor}, decodeMap(t, w))
		})
	}

	t.Run("anonymous write", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, `{"text":"anon"}`, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("author patch", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, `{"text":"edited"}`, leoToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "edited", decodeMap(t, w)["text"])
	})

	t.Run("author put requires text", func(t *testing.T) {
		w := env.do(t, http.MethodPut, path, `{}`, leoToken)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]interface{}{"text": []interface{}{"This field is required."}}, decodeMap(t, w))
	})

	t.Run("author delete", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, path, nil, leoToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, map[string]interface{}{"detail": "Not found."}, decodeMap(t, w))
	})
}

func TestPosts_PatchClearsImageAndGroup(t *testing.T) {
	env := setupTestEnv(t)
	leo := env.createUser(t, "leo")
	group := env.createGroup(t, "Dogs", "dogs")
	token := env.token(t, leo)

	w := env.do(t, http.MethodPost, "/v1/posts/", map[string]interface{}{
		"text":  "dog",
		"group": group.ID,
		"image": "data:image/png;base64," + pngBase64,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := int64(decodeMap(t, w)["id"].(float64))

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/v1/posts/%d/", id), `{"image":null,"group":null}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeMap(t, w)
	assert.Nil(t, body["image"])
	assert.Nil(t, body["group"])
	assert.Equal(t, "dog", body["text"])
}

func TestPosts_EmptyImageValue(t *testing.T) {
	env := setupTestEnv(t)
	leo := env.createUser(t, "leo")
	token := env.token(t, leo)

	w := env.do(t, http.MethodPost, "/v1/posts/", map[string]interface{}{
		"text":  "cat",
		"image": "data:image/png;base64," + pngBase64,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	path := fmt.Sprintf("/v1/posts/%d/", int64(decodeMap(t, w)["id"].(float64)))

	t.Run("json body rejects empty string", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, `{"image":""}`, token)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, map[string]interface{}{"image": []interface{}{
			"The submitted data was not a file. Check the encoding type on the form.",
		}}, decodeMap(t, w))
	})

	t.Run("form body clears image", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader("image=&group="))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer "+token)
		w := env.serve(req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeMap(t, w)
		assert.Nil(t, body["image"])
		assert.Nil(t, body["group"])
		assert.Equal(t, "cat", body["text"])
	})
}

func TestPosts_NotFoundAndBadToken(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/posts/999/", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/v1/posts/abc/", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/v1/posts/", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/v1/unknown/", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

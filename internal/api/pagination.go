package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/steemit/yatube/internal/db"
)

const (
	limitParam  = "limit"
	offsetParam = "offset"
)

// Paginated is the envelope of a limit/offset page
type Paginated struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// parsePage reads limit and offset from the query. It returns nil when
// the request does not ask for pagination.
func parsePage(c *gin.Context) *db.Page {
	raw, ok := c.GetQuery(limitParam)
	if !ok {
		return nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return nil
	}

	offset, err := strconv.Atoi(c.Query(offsetParam))
	if err != nil || offset < 0 {
		offset = 0
	}
	return &db.Page{Limit: limit, Offset: offset}
}

// paginate wraps results in the page envelope with absolute navigation links
func paginate(c *gin.Context, page *db.Page, count int64, results interface{}) Paginated {
	out := Paginated{Count: count, Results: results}

	if int64(page.Offset) < count-int64(page.Limit) {
		next := pageURL(c, page.Limit, page.Offset+page.Limit)
		out.Next = &next
	}
	if page.Offset > 0 {
		prevOffset := page.Offset - page.Limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prev := pageURL(c, page.Limit, prevOffset)
		out.Previous = &prev
	}
	return out
}

func pageURL(c *gin.Context, limit, offset int) string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}

	q := c.Request.URL.Query()
	q.Set(limitParam, strconv.Itoa(limit))
	if offset > 0 {
		q.Set(offsetParam, strconv.Itoa(offset))
	} else {
		q.Del(offsetParam)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

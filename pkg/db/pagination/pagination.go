package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var ErrInvalidCursor = errors.New("invalid_cursor")

// Pagination is bound from the page_token and page_size query parameters of
// the list endpoints (uploads, audit logs).
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=10" validate:"gte=1,lte=250"`
}

// Size clamps PageSize into [1, max], using def when it is unset.
func (p Pagination) Size(def, max int) int {
	size := p.PageSize
	if size <= 0 {
		size = def
	}
	if max > 0 && size > max {
		size = max
	}
	return size
}

// Cursor points at the last row of a page ordered by created_at desc, id desc.
type Cursor struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func NewCursor(id string, createdAt time.Time) Cursor {
	return Cursor{ID: id, CreatedAt: createdAt.UTC().Format(time.RFC3339Nano)}
}

// Time parses CreatedAt.
func (c Cursor) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, c.CreatedAt)
	if err != nil {
		return time.Time{}, ErrInvalidCursor
	}
	return t, nil
}

type PageInfo struct {
	NextPageToken     string `json:"next_page_token"`
	PreviousPageToken string `json:"previous_page_token"`
	HasMore           bool   `json:"has_more"`
}

// EncodeCursor returns a URL-safe page token.
func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeCursor rejects tokens that do not decode to a cursor with both an id
// and a timestamp.
func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, ErrInvalidCursor
	}
	if strings.TrimSpace(cursor.ID) == "" || cursor.CreatedAt == "" {
		return nil, ErrInvalidCursor
	}
	return &cursor, nil
}

// BuildCursorPageInfo expects data fetched with limit+1 rows. The next token
// points at the last row that is actually returned.
func BuildCursorPageInfo[T any](data []*T, limit int32, extractCursor func(*T) Cursor) *PageInfo {
	if len(data) == 0 {
		return &PageInfo{HasMore: false}
	}

	hasMore := false
	if len(data) > int(limit) {
		hasMore = true
		data = data[:limit]
	}

	pageInfo := &PageInfo{HasMore: hasMore}
	if hasMore {
		token, err := EncodeCursor(extractCursor(data[len(data)-1]))
		if err == nil {
			pageInfo.NextPageToken = token
		}
	}
	return pageInfo
}

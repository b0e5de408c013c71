package pagination

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Key is the cursor ordering key: a timestamp with the identifier as tie
// break. The pair must be unique per item so the ordering is total.
type Key struct {
	Time time.Time
	ID   string
}

// Compare orders keys by time, then ID.
func (k Key) Compare(o Key) int {
	if d := k.Time.Compare(o.Time); d != 0 {
		return d
	}
	return strings.Compare(k.ID, o.ID)
}

// Cursor paginates by opaque position tokens relative to a monotonic key.
// Tokens are self-contained, so pages remain stable when new items are
// inserted between fetches.
type Cursor[T any] struct {
	// PageSize is the default window size. Zero means DefaultPageSize.
	PageSize int
	// MaxPageSize bounds the page_size parameter. Zero means MaxPageSize.
	MaxPageSize int
	// KeyOf extracts the ordering key from an item. Required.
	KeyOf func(T) Key
	// Ordering is the applied ordering, "created" or "-created". Empty
	// means "-created", newest first.
	Ordering string
	// OrderFields allow-lists values accepted from the orderby parameter.
	// Nil means {"created", "-created"}. Unknown values are ignored.
	OrderFields []string
	// Passthrough returns the full collection unpaginated when neither
	// cursor nor page_size is present on the request.
	Passthrough bool
}

// CursorResult is the outcome of cursor pagination.
type CursorResult[T any] struct {
	Items          []T
	NextCursor     *string
	PreviousCursor *string
	Paginated      bool
}

// cursorToken is the decoded wire form of a cursor. R marks a reverse
// cursor, one addressing the window that ends just before the key.
type cursorToken struct {
	T  int64  `json:"t"`
	ID string `json:"id"`
	R  bool   `json:"r,omitempty"`
}

// Paginate sorts items under the effective ordering and slices out the
// window addressed by the request cursor. Malformed cursors are treated as
// absent.
func (p Cursor[T]) Paginate(items []T, r *http.Request) CursorResult[T] {
	q := r.URL.Query()
	if p.Passthrough && !q.Has(ParamCursor) && !q.Has(ParamPageSize) {
		return CursorResult[T]{Items: items}
	}

	size := pageSize(r, p.PageSize, p.MaxPageSize)
	desc := strings.HasPrefix(p.ordering(r), "-")

	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		d := p.KeyOf(sorted[i]).Compare(p.KeyOf(sorted[j]))
		if desc {
			return d > 0
		}
		return d < 0
	})

	// rank places the item at index i relative to key k in the presented
	// order: negative before, zero equal, positive past it.
	rank := func(i int, k Key) int {
		d := p.KeyOf(sorted[i]).Compare(k)
		if desc {
			return -d
		}
		return d
	}

	n := len(sorted)
	start, end := 0, size
	if key, reverse, ok := decodeCursor(q.Get(ParamCursor)); ok {
		if reverse {
			// Window of size items ending just before the key.
			end = sort.Search(n, func(i int) bool { return rank(i, key) >= 0 })
			start = end - size
			if start < 0 {
				start = 0
			}
		} else {
			// Window of size items starting just past the key.
			start = sort.Search(n, func(i int) bool { return rank(i, key) > 0 })
			end = start + size
		}
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}

	res := CursorResult[T]{Items: sorted[start:end], Paginated: true}
	if end > start {
		if end < n {
			tok := encodeCursor(p.KeyOf(sorted[end-1]), false)
			res.NextCursor = &tok
		}
		if start > 0 {
			tok := encodeCursor(p.KeyOf(sorted[start]), true)
			res.PreviousCursor = &tok
		}
	}
	return res
}

// ordering resolves the effective ordering, honoring the orderby parameter
// when its value is allow-listed.
func (p Cursor[T]) ordering(r *http.Request) string {
	ordering := p.Ordering
	if ordering == "" {
		ordering = "-created"
	}
	fields := p.OrderFields
	if fields == nil {
		fields = []string{"created", "-created"}
	}
	if raw := r.URL.Query().Get(ParamOrderBy); raw != "" {
		for _, f := range fields {
			if raw == f {
				return raw
			}
		}
	}
	return ordering
}

// encodeCursor packs a key into an opaque url-safe token.
func encodeCursor(k Key, reverse bool) string {
	b, _ := json.Marshal(cursorToken{T: k.Time.UnixNano(), ID: k.ID, R: reverse})
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeCursor unpacks a token. Anything that does not parse reports ok
// false and is handled as an absent cursor.
func decodeCursor(s string) (key Key, reverse, ok bool) {
	if s == "" {
		return Key{}, false, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Key{}, false, false
	}
	var tok cursorToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return Key{}, false, false
	}
	if tok.T == 0 && tok.ID == "" {
		return Key{}, false, false
	}
	return Key{Time: time.Unix(0, tok.T).UTC(), ID: tok.ID}, tok.R, true
}

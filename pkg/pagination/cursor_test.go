package pagination

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"
	"time"
)

type record struct {
	ID      string
	Created time.Time
}

func recordKey(r record) Key {
	return Key{Time: r.Created, ID: r.ID}
}

// records returns n items with ascending creation times and IDs.
func records(n int) []record {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]record, n)
	for i := range out {
		out[i] = record{
			ID:      string(rune('a' + i)),
			Created: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func ids(items []record) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func cursorReq(query string) *http.Request {
	return httptest.NewRequest("GET", "http://api.test/transactions"+query, nil)
}

func TestCursor_WalkForward(t *testing.T) {
	items := records(7)
	p := Cursor[record]{PageSize: 3, KeyOf: recordKey, Ordering: "created"}

	var got []string
	res := p.Paginate(items, cursorReq(""))
	got = append(got, ids(res.Items)...)
	for res.NextCursor != nil {
		res = p.Paginate(items, cursorReq("?cursor="+url.QueryEscape(*res.NextCursor)))
		got = append(got, ids(res.Items)...)
	}
	if !reflect.DeepEqual(got, ids(items)) {
		t.Errorf("walked = %v, want %v", got, ids(items))
	}
}

func TestCursor_FirstPageMarkers(t *testing.T) {
	items := records(5)
	p := Cursor[record]{PageSize: 2, KeyOf: recordKey, Ordering: "created"}

	res := p.Paginate(items, cursorReq(""))
	if res.PreviousCursor != nil {
		t.Error("first page PreviousCursor set, want nil")
	}
	if res.NextCursor == nil {
		t.Fatal("first page NextCursor nil, want token")
	}
}

func TestCursor_PreviousReturnsPrecedingWindow(t *testing.T) {
	items := records(9)
	p := Cursor[record]{PageSize: 3, KeyOf: recordKey, Ordering: "created"}

	first := p.Paginate(items, cursorReq(""))
	if first.NextCursor == nil {
		t.Fatal("NextCursor nil")
	}
	second := p.Paginate(items, cursorReq("?cursor="+*first.NextCursor))
	if second.PreviousCursor == nil {
		t.Fatal("PreviousCursor nil")
	}
	back := p.Paginate(items, cursorReq("?cursor="+*second.PreviousCursor))
	if !reflect.DeepEqual(ids(back.Items), ids(first.Items)) {
		t.Errorf("previous window = %v, want %v", ids(back.Items), ids(first.Items))
	}
	if back.PreviousCursor != nil {
		t.Errorf("window at the start still has PreviousCursor")
	}
	if last := back.Items[len(back.Items)-1]; recordKey(last).Compare(recordKey(second.Items[0])) >= 0 {
		t.Errorf("previous window does not end before the current one")
	}
}

func TestCursor_DefaultOrderingNewestFirst(t *testing.T) {
	items := records(4)
	p := Cursor[record]{PageSize: 2, KeyOf: recordKey}

	res := p.Paginate(items, cursorReq(""))
	if !reflect.DeepEqual(ids(res.Items), []string{"d", "c"}) {
		t.Errorf("first window = %v, want newest first", ids(res.Items))
	}
}

func TestCursor_OrderByParam(t *testing.T) {
	items := records(4)
	p := Cursor[record]{PageSize: 2, KeyOf: recordKey}

	res := p.Paginate(items, cursorReq("?orderby=created"))
	if !reflect.DeepEqual(ids(res.Items), []string{"a", "b"}) {
		t.Errorf("orderby=created window = %v, want oldest first", ids(res.Items))
	}

	// Values outside the allow-list keep the default ordering.
	res = p.Paginate(items, cursorReq("?orderby=amount"))
	if !reflect.DeepEqual(ids(res.Items), []string{"d", "c"}) {
		t.Errorf("disallowed orderby window = %v, want default ordering", ids(res.Items))
	}
}

func TestCursor_MalformedTokenFallsBack(t *testing.T) {
	items := records(4)
	p := Cursor[record]{PageSize: 2, KeyOf: recordKey, Ordering: "created"}

	for _, raw := range []string{"%21%21%21", "bm90anNvbg", "bnVsbA"} {
		res := p.Paginate(items, cursorReq("?cursor="+raw))
		if !reflect.DeepEqual(ids(res.Items), []string{"a", "b"}) {
			t.Errorf("cursor %q: window = %v, want first window", raw, ids(res.Items))
		}
	}
}

func TestCursor_AppendMidWalk(t *testing.T) {
	items := records(4)
	p := Cursor[record]{PageSize: 3, KeyOf: recordKey, Ordering: "created"}

	first := p.Paginate(items, cursorReq(""))
	if first.NextCursor == nil {
		t.Fatal("NextCursor nil")
	}

	appended := record{ID: "z", Created: items[3].Created.Add(time.Hour)}
	grown := append(append([]record{}, items...), appended)

	res := p.Paginate(grown, cursorReq("?cursor="+*first.NextCursor))
	if !reflect.DeepEqual(ids(res.Items), []string{"d", "z"}) {
		t.Errorf("continuation = %v, want remaining plus appended", ids(res.Items))
	}
	if res.NextCursor != nil {
		t.Error("NextCursor set past the end of the grown set")
	}
}

func TestCursor_TieBreakOnID(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []record{
		{ID: "b", Created: at},
		{ID: "a", Created: at},
		{ID: "c", Created: at},
	}
	p := Cursor[record]{PageSize: 1, KeyOf: recordKey, Ordering: "created"}

	var got []string
	res := p.Paginate(items, cursorReq(""))
	got = append(got, ids(res.Items)...)
	for res.NextCursor != nil {
		res = p.Paginate(items, cursorReq("?cursor="+*res.NextCursor))
		got = append(got, ids(res.Items)...)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("walk with equal timestamps = %v, want ID order", got)
	}
}

func TestCursor_Passthrough(t *testing.T) {
	items := records(4)
	p := Cursor[record]{PageSize: 2, KeyOf: recordKey, Passthrough: true}

	res := p.Paginate(items, cursorReq(""))
	if res.Paginated {
		t.Error("Paginated = true without pagination params")
	}
	if len(res.Items) != 4 {
		t.Errorf("Items = %v, want full set", ids(res.Items))
	}

	res = p.Paginate(items, cursorReq("?page_size=2"))
	if !res.Paginated {
		t.Error("Paginated = false with explicit page_size")
	}
}

func TestCursor_TokenRoundTrip(t *testing.T) {
	key := Key{Time: time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC), ID: "tx_1"}
	tok := encodeCursor(key, true)
	got, reverse, ok := decodeCursor(tok)
	if !ok {
		t.Fatal("decode failed")
	}
	if !reverse {
		t.Error("reverse flag lost")
	}
	if got.Compare(key) != 0 {
		t.Errorf("key = %+v, want %+v", got, key)
	}
}

func TestStrategyFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", StrategyPage},
		{"?pagination=cursor", StrategyCursor},
		{"?pagination=page", StrategyPage},
		{"?pagination=bogus", StrategyPage},
	}
	for _, tt := range tests {
		r := cursorReq(tt.query)
		if got := StrategyFromRequest(r, StrategyPage); got != tt.want {
			t.Errorf("query %q: strategy = %q, want %q", tt.query, got, tt.want)
		}
	}
}

package envelope

// Status values carried by every response body.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Envelope is the standard response body: a status plus the payload.
type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// Page is the page-number paginated envelope. Count is the full unsliced
// length of the collection. Next and Previous are absolute URLs, or null at
// the boundaries.
type Page struct {
	Status   string  `json:"status"`
	Data     any     `json:"data"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// CursorPage is the cursor paginated envelope. The cursors are opaque
// url-safe tokens, or null at the boundaries.
type CursorPage struct {
	Status         string  `json:"status"`
	Data           any     `json:"data"`
	NextCursor     *string `json:"next_cursor"`
	PreviousCursor *string `json:"previous_cursor"`
}

// Wrap returns a success envelope around data. Wrapping a payload that is
// already an envelope is a programming error and panics.
func Wrap(data any) Envelope {
	if Wrapped(data) {
		panic("envelope: payload is already wrapped")
	}
	return Envelope{Status: StatusSuccess, Data: data}
}

// WrapError returns a failure envelope around detail. Detail is typically a
// message string or a field name to messages map.
func WrapError(detail any) Envelope {
	if Wrapped(detail) {
		panic("envelope: payload is already wrapped")
	}
	return Envelope{Status: StatusFailure, Data: detail}
}

// Minimal returns the bare success body used by delete and action
// endpoints: a status with no data key. The map form allows callers to merge
// extra top-level keys before encoding.
func Minimal() map[string]any {
	return map[string]any{"status": StatusSuccess}
}

// Wrapped reports whether v already carries the envelope shape.
func Wrapped(v any) bool {
	switch t := v.(type) {
	case Envelope, *Envelope, Page, *Page, CursorPage, *CursorPage:
		return true
	case map[string]any:
		s, ok := t["status"].(string)
		return ok && (s == StatusSuccess || s == StatusFailure)
	}
	return false
}

package pagination

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Separator joins the primary sort value and the tie-break id inside an
// encoded cursor. The primary value is URL-escaped before joining, so the
// separator cannot occur inside it.
const Separator = "::"

// Cursor is the decoded form of an opaque pagination cursor: the primary
// sort value (a timestamp or a text field) plus the row id used to break
// ties between rows with an equal primary value.
//
// A cursor is only meaningful relative to the (sort field, direction) pair
// it was produced under; mixing cursors across sort configurations is
// undefined behavior and is not validated.
type Cursor struct {
	Primary string
	ID      int64
}

// Encode serializes the cursor into its opaque string form.
func (c Cursor) Encode() string {
	return url.QueryEscape(c.Primary) + Separator + strconv.FormatInt(c.ID, 10)
}

// EncodeTime builds a cursor from a timestamp-sorted row.
func EncodeTime(t time.Time, id int64) string {
	return Cursor{Primary: t.UTC().Format(time.RFC3339Nano), ID: id}.Encode()
}

// EncodeText builds a cursor from a text-sorted row.
func EncodeText(text string, id int64) string {
	return Cursor{Primary: text, ID: id}.Encode()
}

// Decode parses an opaque cursor string. Decoding is deliberately lenient:
// malformed input yields zero values rather than an error, and callers
// treat a zero cursor as "no cursor supplied" when building comparisons.
func Decode(cursor string) Cursor {
	primary, rest, ok := strings.Cut(cursor, Separator)
	if !ok {
		return Cursor{}
	}
	unescaped, err := url.QueryUnescape(primary)
	if err != nil {
		unescaped = ""
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		id = 0
	}
	return Cursor{Primary: unescaped, ID: id}
}

// Time parses the primary value as a timestamp. The boolean is false when
// the primary value is not a valid timestamp, in which case the caller
// skips the cursor condition entirely.
func (c Cursor) Time() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, c.Primary)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Text is a free-form form field. Browsers post numbers for some inputs and
// strings for others, so it decodes from either and always encodes as a
// JSON string. It also scans NULL columns as "".
type Text string

func (t Text) String() string { return string(t) }

// Trimmed returns the value with surrounding whitespace removed.
func (t Text) Trimmed() string { return strings.TrimSpace(string(t)) }

// IsBlank reports whether the field was left empty.
func (t Text) IsBlank() bool { return t.Trimmed() == "" }

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case '{', '[':
		return fmt.Errorf("text field: unexpected %c", b[0])
	}
	// number or boolean literal, kept as written
	*t = Text(b)
	return nil
}

func (t *Text) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(v)
	case []byte:
		*t = Text(v)
	case int64:
		*t = Text(strconv.FormatInt(v, 10))
	case float64:
		*t = Text(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(v))
	case time.Time:
		*t = Text(v.Format("2006-01-02"))
	default:
		return fmt.Errorf("text field: cannot scan %T", src)
	}
	return nil
}

func (t Text) Value() (driver.Value, error) { return string(t), nil }

package serializers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"
)

// Data is a decoded request body. Values are the ones produced by a
// json.Decoder with UseNumber, plain strings for form values, or
// *multipart.FileHeader for uploaded files.
type Data map[string]interface{}

// TimeFormat is the wire format of every timestamp
const TimeFormat = "2006-01-02T15:04:05.000000Z"

// FormatTime renders t in UTC with microsecond precision
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// typeName names a decoded JSON value the way error messages refer to it
func typeName(v interface{}) string {
	switch n := v.(type) {
	case string:
		return "str"
	case bool:
		return "bool"
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return "int"
		}
		return "float"
	case map[string]interface{}:
		return "dict"
	case []interface{}:
		return "list"
	case *multipart.FileHeader:
		return "file"
	case nil:
		return "NoneType"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// charField validates a text field. The returned pointer is nil when the
// field is absent and the field was not required.
func charField(data Data, name string, required bool, errs ValidationError) *string {
	raw, ok := data[name]
	if !ok {
		if required {
			errs.Add(name, MsgRequired)
		}
		return nil
	}

	var value string
	switch v := raw.(type) {
	case nil:
		errs.Add(name, MsgNull)
		return nil
	case string:
		value = v
	case json.Number:
		value = v.String()
	default:
		errs.Add(name, MsgInvalidString)
		return nil
	}

	value = strings.TrimSpace(value)
	if value == "" {
		errs.Add(name, MsgBlank)
		return nil
	}
	return &value
}

// pkValue parses a primary key. ok is false when v has the wrong type.
func pkValue(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return id, err == nil
	}
	return 0, false
}

// slugValue turns a lookup value into a string. ok is false for values
// that can never name an object.
func slugValue(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	}
	return "", false
}

// Package model holds the portal's domain types and the request payloads
// accepted by its API, each validating itself with struct tags.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Base carries the columns every table has.
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ID is a numeric identifier that also accepts its string form, as admin
// forms post select values as strings.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return id.UnmarshalParam(s)
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = ID(n)
	return nil
}

// UnmarshalParam implements echo.BindUnmarshaler for path and query values.
func (id *ID) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", param)
	}
	*id = ID(n)
	return nil
}

func (id ID) Int64() int64 {
	return int64(id)
}

var validate = newValidator()

// newValidator reports fields by their JSON (or query/param) name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// trimmed returns nil for nil or blank strings, otherwise the trimmed value.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

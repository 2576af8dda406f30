package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/avelasquez-dev/taskdeck/internal/common"
)

// FieldErrors carries server-side, per-field validation messages, e.g.
// from the registration endpoint. It matches common.ErrValidation under
// errors.Is.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Is(target error) bool {
	return target == common.ErrValidation
}

// mapStatus translates an HTTP failure status plus response body into one
// of the common sentinels. Bodies shaped like {"field": ["msg", ...]} or
// {"field": "msg"} become FieldErrors; a {"detail": "..."} body is folded
// into the error message.
func mapStatus(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: forbidden", common.ErrUnauthorized)
	case status == http.StatusNotFound:
		return common.ErrNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		if fe := parseFieldErrors(body); len(fe) > 0 {
			return fe
		}
		return fmt.Errorf("%w: status %d", common.ErrValidation, status)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", common.ErrUnavailable, status)
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

func parseFieldErrors(body []byte) FieldErrors {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	fe := make(FieldErrors)
	for field, v := range raw {
		switch value := v.(type) {
		case string:
			fe[field] = []string{value}
		case []any:
			for _, item := range value {
				if s, ok := item.(string); ok {
					fe[field] = append(fe[field], s)
				}
			}
		}
	}
	return fe
}

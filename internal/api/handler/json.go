package handler

import (
	"encoding/json"
	"strings"

	"github.com/labstack/echo/v4"
)

// isJSONRequest reports whether the request declares a JSON body. The PATCH
// endpoints require it and reject anything else with 400.
func isJSONRequest(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(strings.TrimSpace(ct), echo.MIMEApplicationJSON)
}

// decodePartial decodes the request body into dst while checking every
// top-level key against allowed. It returns (false, nil) when an unknown
// field is present, so callers can reject the update wholesale.
func decodePartial(c echo.Context, allowed map[string]struct{}, dst any) (bool, error) {
	fields := map[string]json.RawMessage{}
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
		return false, err
	}

	for key := range fields {
		if _, ok := allowed[key]; !ok {
			return false, nil
		}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dst)
}

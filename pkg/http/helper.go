package http

import (
	"net/http"
	"strconv"

	apperrors "seatplan/pkg/errors"
)

// ExtractPage reads the 1-indexed "page" query parameter. Missing or
// out-of-range values fall back to page 1.
func ExtractPage(r *http.Request) (int, error) {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid page parameter: " + s)
	}
	if page < 1 {
		page = 1
	}
	return page, nil
}

// ExtractIntParam reads an optional integer query parameter, returning nil
// when the parameter is absent.
func ExtractIntParam(r *http.Request, name string) (*int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return &v, nil
}

package prober

import (
	"errors"
	"net/http"
)

var errEmptyURL = errors.New("empty probe URL")
var errEmptyMarker = errors.New("empty expected marker")

type errStatusNotOK int

func (e errStatusNotOK) Error() string {
	return "non-2xx HTTP status code: " + http.StatusText(int(e))
}

type errPathNotFound string

func (e errPathNotFound) Error() string {
	return "JSON path not found in response: " + string(e)
}

type errUnexpectedMarker string

func (e errUnexpectedMarker) Error() string {
	return "unexpected liveness marker: " + string(e)
}

package web

import (
	"encoding/json"
	"net/http"
)

const (
	errcodeMissingToken = "M_MISSING_TOKEN"
	errcodeUnknownToken = "M_UNKNOWN_TOKEN"
	errcodeInvalidParam = "M_INVALID_PARAM"
	errcodeUnrecognized = "M_UNRECOGNIZED"
	errcodeUnknown      = "M_UNKNOWN"
)

// errorBody is the JSON body of every error response.
type errorBody struct {
	Errcode string `json:"errcode"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errcode, msg string) {
	writeJSON(w, status, errorBody{Errcode: errcode, Error: msg})
}

package web

import (
	"errors"
	"net/http"

	"github.com/willemschots/openidstore/internal/errorz"
)

type userInfoRequest struct {
	AccessToken string `validate:"required"`
}

// userInfoResponse is returned to relying parties that redeem a token.
type userInfoResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// userInfo lets a relying party exchange an OpenID token for the id of the
// user it was issued to, along with the user's email and display name if known.
func (s *Server) userInfo(w http.ResponseWriter, r *http.Request) {
	req := userInfoRequest{
		AccessToken: r.URL.Query().Get("access_token"),
	}

	err := validateStruct(req)
	if err != nil {
		var invalid errorz.InvalidInput
		if errors.As(err, &invalid) {
			writeError(w, http.StatusUnauthorized, errcodeMissingToken, "Access Token required")
			return
		}
		s.handleError(w, r, err)
		return
	}

	ctx := r.Context()

	userID, ok, err := s.deps.Tokens.Redeem(ctx, req.AccessToken, s.deps.NowFunc().UnixMilli())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if !ok {
		writeError(w, http.StatusUnauthorized, errcodeUnknownToken, "Access Token unknown or expired")
		return
	}

	resp := userInfoResponse{Sub: userID}

	resp.Email, _, err = s.deps.Profiles.Email(ctx, userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp.Name, _, err = s.deps.Profiles.DisplayName(ctx, userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

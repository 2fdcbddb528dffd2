package api

import (
	"encoding/json"
	"net/http"

	"dtmapi/internal/apperror"
	"dtmapi/internal/auth"
	"dtmapi/internal/key"

	"github.com/gorilla/mux"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		LineUserID string `json:"lineUserId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	errs := apperror.Validation()
	required(errs, req.Email, "email", "The email was empty")
	required(errs, req.Password, "password", "The password was empty")
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	tokens, err := h.users.Login(r.Context(), req.Email, req.Password, req.LineUserID)
	if err != nil {
		h.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		h.writeError(w, r, err)
		return
	}
	h.metrics.LoginsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, tokens)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		PhoneNumber     string `json:"phoneNumber"`
		LineUserID      string `json:"lineUserId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	errs := apperror.Validation()
	required(errs, req.FirstName, "firstName", "The first name was empty")
	required(errs, req.LastName, "lastName", "The last name was empty")
	if required(errs, req.Email, "email", "The email was empty") {
		if !isEmail(req.Email) {
			errs.Add("invalid/email", "The email was invalid.")
		} else {
			exists, err := h.users.EmailExists(r.Context(), req.Email)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			if exists {
				errs.Add("condition/email", "The email was duplicated.")
			}
		}
	}
	if required(errs, req.Password, "password", "The password was empty") &&
		required(errs, req.ConfirmPassword, "confirmPassword", "The confirmPassword was empty") &&
		req.Password != req.ConfirmPassword {
		errs.Add("condition/confirmPassword", "The confirmPassword does not match")
	}
	required(errs, req.PhoneNumber, "phoneNumber", "The phoneNumber was empty")
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.users.Register(r.Context(), auth.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		LineUserID:  req.LineUserID,
	}, r.Host)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if res.Successful {
		h.metrics.RegistrationsTotal.Inc()
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword     string `json:"oldPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	errs := apperror.Validation()
	required(errs, req.OldPassword, "oldPassword", "The oldPassword was empty")
	required(errs, req.NewPassword, "newPassword", "The newPassword was empty")
	if required(errs, req.ConfirmPassword, "confirmPassword", "The confirmPassword was empty") &&
		req.NewPassword != req.ConfirmPassword {
		errs.Add("condition/confirmPassword", "The confirmPassword does not match")
	}
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	sess := sessionFrom(r.Context())
	ok, err := h.users.ChangePassword(r.Context(), sess.User.ID.Hex(), req.OldPassword, req.NewPassword)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	msg := "Change password success"
	if !ok {
		msg = "Change password fail"
	}
	writeJSON(w, http.StatusOK, auth.Message{Successful: ok, Message: msg})
}

func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	errs := apperror.Validation()
	required(errs, req.RefreshToken, "refreshToken", "The refreshToken was empty")
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	tokens, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PushToken string `json:"pushToken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.users.Logout(r.Context(), sessionFrom(r.Context()), req.PushToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) verifyAccount(w http.ResponseWriter, r *http.Request) {
	tok := mux.Vars(r)["token"]
	errs := apperror.Validation()
	required(errs, tok, "token", "The token was empty")
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.users.VerifyAccount(r.Context(), tok)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) resendVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	errs := apperror.Validation()
	required(errs, req.Email, "email", "The email was empty")
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	sent, err := h.users.ResendVerifyEmail(r.Context(), req.Email, r.Host)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	errs := apperror.Validation()
	if required(errs, req.Email, "email", "The email was empty") {
		if !isEmail(req.Email) {
			errs.Add("invalid/email", "The email was invalid")
		} else {
			exists, err := h.users.EmailExists(r.Context(), req.Email)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			if !exists {
				errs.Add("condition/email", "The email does not exist")
			}
		}
	}
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	ok, err := h.users.ForgotPassword(r.Context(), req.Email, r.Host)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	msg := "Sent email success"
	if !ok {
		msg = "Sent email fail"
	}
	writeJSON(w, http.StatusOK, auth.Message{Successful: ok, Message: msg})
}

func (h *Handler) newPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	tok := mux.Vars(r)["token"]
	errs := apperror.Validation()
	required(errs, req.NewPassword, "newPassword", "The newPassword was empty")
	required(errs, tok, "token", "The token was empty")
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	ok, err := h.users.NewPassword(r.Context(), req.NewPassword, tok)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	msg := "Set new password success"
	if !ok {
		msg = "Set new password fail"
	}
	writeJSON(w, http.StatusOK, auth.Message{Successful: ok, Message: msg})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	info, err := h.users.Profile(r.Context(), sessionFrom(r.Context()).User.ID.Hex())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) addKYCChannel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel string `json:"channel"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	errs := apperror.Validation()
	required(errs, req.Channel, "channel", "The channel was empty")
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	ok, err := h.users.AddKYCChannel(r.Context(), sessionFrom(r.Context()).User.ID.Hex(), req.Channel)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

// platformTypes reads type[] from a JSON body or repeated query parameters.
func platformTypes(r *http.Request) ([]string, error) {
	if types := r.URL.Query()["type"]; len(types) > 0 {
		return types, nil
	}
	var req struct {
		Type json.RawMessage `json:"type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if len(req.Type) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(req.Type, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(req.Type, &single); err == nil && single != "" {
		return []string{single}, nil
	}
	return nil, apperror.Single(http.StatusBadRequest, "invalid/type", "type is invalid")
}

func (h *Handler) platformGetUser(w http.ResponseWriter, r *http.Request) {
	types, err := platformTypes(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(types) == 0 {
		h.writeError(w, r, apperror.Single(http.StatusBadRequest, "empty/type", "The type of user was empty"))
		return
	}

	ct, err := h.keys.Lookup(r.Context(), r.Header.Get("token"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := key.Authorize(ct, types); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.users.PlatformUsers(r.Context(), types)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

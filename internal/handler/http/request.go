package http

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// actorOf returns the caller stored by the auth middleware and answers 401
// when it is missing.
func actorOf(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
	}
	return actor, ok
}

// idParam reads a UUID path parameter. Anything else cannot name a stored
// row, so it is answered with notFound.
func idParam(w http.ResponseWriter, r *http.Request, notFound error) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// formLookup reads a flat JSON object or a urlencoded form and reports for
// every key whether it was submitted. JSON null counts as not submitted.
func formLookup(w http.ResponseWriter, r *http.Request) (func(key string) (string, bool), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isJSON(r) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, err
		}
		return func(key string) (string, bool) {
			v, ok := body[key]
			if !ok || v == nil {
				return "", false
			}
			if s, isString := v.(string); isString {
				return s, true
			}
			return fmt.Sprint(v), true
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return func(key string) (string, bool) {
		values, ok := r.PostForm[key]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}, nil
}

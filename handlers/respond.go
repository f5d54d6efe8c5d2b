package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxJSONBody = 1 << 20

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// jsonError is http.Error with a JSON-escaped message, for errors that carry user input.
func jsonError(w http.ResponseWriter, msg string, status int) {
	b, _ := json.Marshal(map[string]string{"error": msg})
	http.Error(w, string(b), status)
}

// decodeJSON reads a single JSON object and runs struct validation on it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return true
		}
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return field + " must be at least " + fe.Param() + " long"
	case "max":
		return field + " must be at most " + fe.Param() + " long"
	case "gte", "gt", "lte", "lt":
		return field + " is out of range"
	default:
		return field + " is invalid"
	}
}

func idParam(w http.ResponseWriter, r *http.Request, name, what string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		jsonError(w, "invalid "+what+" id", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

// maxBodyBytes bounds request bodies; raw job pages can be large.
const maxBodyBytes = 8 << 20

// ExtractRequest asks the server to build a snapshot from a job page. When
// HTML is set it is used as the page; otherwise URL is fetched.
type ExtractRequest struct {
	URL         string `json:"url" validate:"required,url"`
	HTML        string `json:"html,omitempty"`
	Browser     bool   `json:"browser,omitempty"`
	SnapshotKey string `json:"snapshotKey,omitempty" validate:"max=256"`
}

// AnalyzeRequest analyzes an inline job or a cached snapshot.
type AnalyzeRequest struct {
	Job         *types.JobSnapshot `json:"job,omitempty" validate:"required_without=SnapshotKey"`
	SnapshotKey string             `json:"snapshotKey,omitempty" validate:"required_without=Job,max=256"`
	Provider    string             `json:"provider,omitempty" validate:"omitempty,oneof=openai gemini grok"`
	Passphrase  string             `json:"passphrase,omitempty"`
}

// TestConnectionRequest probes one provider, or all of them when All is set.
type TestConnectionRequest struct {
	Provider   string `json:"provider,omitempty" validate:"omitempty,oneof=openai gemini grok"`
	Passphrase string `json:"passphrase,omitempty"`
	All        bool   `json:"all,omitempty"`
}

// decodeRequest reads a JSON body into dst and validates it.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ErrValidation{Message: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return s.validateStruct(dst)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ErrValidation{Message: "request body too large"}
		}
		return nil, &ErrValidation{Message: "failed to read request body"}
	}
	return body, nil
}

// validateStruct reports the first failing field as an ErrValidation.
func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{Field: jsonFieldName(fe.Field()), Message: validationMessage(fe)}
	}
	return &ErrValidation{Message: err.Error()}
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	if strings.ToUpper(field) == field {
		return strings.ToLower(field)
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return fmt.Sprintf("is required when %s is not set", jsonFieldName(fe.Param()))
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

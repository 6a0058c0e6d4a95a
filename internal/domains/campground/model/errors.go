package model

import (
	"errors"
	"fmt"
	"net/http"

	"campground-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

// Error kinds của lifecycle manager
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("campground not found")
	ErrUnauthorized = errors.New("not allowed to modify this campground")
	ErrRemoteStore  = errors.New("remote image store error")
	ErrRepository   = errors.New("repository error")
)

// Repository-level sentinel
var ErrCampgroundNotFound = errors.New("campground record not found")

// Các step của lifecycle, dùng trong LifecycleError.Step
const (
	StepValidate         = "validate"
	StepFindCampground   = "find-campground"
	StepAuthorize        = "authorize"
	StepUploadImage      = "upload-image"
	StepInsertCampground = "insert-campground"
	StepDeleteOldImage   = "delete-old-image"
	StepUploadNewImage   = "upload-new-image"
	StepUpdateCampground = "update-campground"
	StepDeleteImage      = "delete-image"
	StepDeleteCampground = "delete-campground"
	StepQueryCampgrounds = "query-campgrounds"
	StepListComments     = "list-comments"
)

// LifecycleError gắn kind + step vào lỗi gốc.
// errors.Is(err, ErrRemoteStore) và errors.Is(err, <cause>) đều đúng.
type LifecycleError struct {
	Kind error
	Step string
	Err  error
}

func (e *LifecycleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v: %v", e.Step, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Step, e.Kind)
}

func (e *LifecycleError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewLifecycleError constructor
func NewLifecycleError(kind error, step string, err error) *LifecycleError {
	return &LifecycleError{Kind: kind, Step: step, Err: err}
}

var campgroundErrorMap = []struct {
	Kind    error
	Status  int
	Code    string
	Message string
}{
	{ErrValidation, http.StatusBadRequest, "CAMP_VALIDATION", "Invalid campground data"},
	{ErrNotFound, http.StatusNotFound, "CAMP_NOT_FOUND", "Campground not found"},
	{ErrUnauthorized, http.StatusForbidden, "CAMP_FORBIDDEN", "You don't have permission to do that"},
	{ErrRemoteStore, http.StatusBadGateway, "CAMP_IMAGE_STORE", "Image service is unavailable, please try again"},
	{ErrRepository, http.StatusInternalServerError, "CAMP_STORAGE", "Could not save campground"},
}

// HandleCampgroundError ghi JSON error response theo kind.
// Trả về false nếu err == nil.
func HandleCampgroundError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, entry := range campgroundErrorMap {
		if errors.Is(err, entry.Kind) {
			message := entry.Message
			var fieldErrs validation.Errors
			if entry.Kind == ErrValidation && errors.As(err, &fieldErrs) {
				response.ErrorWithDetails(c, entry.Status, entry.Code, message, fieldErrs)
				return true
			}
			var lerr *LifecycleError
			if entry.Kind == ErrValidation && errors.As(err, &lerr) && lerr.Err != nil {
				// lỗi validation an toàn để trả nguyên văn cho client
				message = lerr.Err.Error()
			}
			if entry.Status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[Campground] request failed")
			}
			response.ErrorResponse(c, entry.Status, entry.Code, message)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[Campground] unexpected error")
	response.InternalServerError(c, "Internal server error")
	return true
}

package types

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

// LayoutParams are the form fields of a layout request. Margins stay
// strings so that unparsable values can fall back to 0 instead of
// rejecting the request.
type LayoutParams struct {
	Columns         int    `form:"columns" json:"columns" validate:"min=1,max=16"`
	Rows            int    `form:"rows" json:"rows" validate:"min=1,max=16"`
	PageMargin      string `form:"page_margin" json:"page_margin"`
	ImageMargin     string `form:"image_margin" json:"image_margin"`
	Angles          string `form:"angles" json:"angles"`
	Orientation     string `form:"orientation" json:"orientation" validate:"omitempty,oneof=portrait landscape auto"`
	BestOrientation bool   `form:"best_orientation" json:"best_orientation"`
	Save            bool   `form:"save" json:"save"`
}

// DefaultLayoutParams is a single image per portrait page without margins.
func DefaultLayoutParams() LayoutParams {
	return LayoutParams{Columns: 1, Rows: 1, Orientation: "portrait"}
}

type MergeParams struct {
	// Ranges holds one page range string per uploaded file, in upload order.
	Ranges []string `form:"ranges" json:"ranges"`
	Save   bool     `form:"save" json:"save"`
}

type RangeCheckParams struct {
	Input    string `json:"input"`
	LastPage int    `json:"last_page" validate:"min=0"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *LayoutParams) Validate() map[string]string {
	params.Orientation = strings.ToLower(strings.TrimSpace(params.Orientation))
	return validateStruct(params)
}

func (params *MergeParams) Validate() map[string]string {
	return validateStruct(params)
}

func (params *RangeCheckParams) Validate() map[string]string {
	return validateStruct(params)
}

func validateStruct(params any) map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: http.StatusUnprocessableEntity,
		Errors: errors,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

// ParseMargin reads a margin in whole points. The empty string is 0.
// Anything that is not an integer is also 0, reported with a BoundsError so
// the caller can warn about it.
func ParseMargin(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, NewBoundsError(fmt.Sprintf("%s %q is not an integer, using 0", field, s), err)
	}
	return float64(v), nil
}

// ParseAngles reads a comma separated list of rotations in degrees.
// Entries that are not plain digits are 0.
func ParseAngles(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	angles := make([]int, len(parts))
	for i, p := range parts {
		angles[i] = ParseAngle(p)
	}
	return angles
}

func ParseAngle(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v % 360
}

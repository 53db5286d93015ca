package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sahil-chaple/happy-street-godhani/internal/metrics"
	"github.com/sahil-chaple/happy-street-godhani/internal/models"
	"github.com/sahil-chaple/happy-street-godhani/internal/repository"
)

// ErrValidation wraps every rejection of a submitted form.
var ErrValidation = errors.New("validation failed")

// ValidationError carries the client-facing reason a form was rejected.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return ErrValidation.Error() + ": " + e.Msg }
func (e *ValidationError) Unwrap() error { return ErrValidation }

type SubmissionService struct {
	subs     repository.SubmissionRepository
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
}

// NewSubmissionService renders export dates in loc (time.Local when nil).
func NewSubmissionService(subs repository.SubmissionRepository, loc *time.Location) *SubmissionService {
	if loc == nil {
		loc = time.Local
	}
	return &SubmissionService{
		subs:     subs,
		validate: newValidator(),
		loc:      loc,
		now:      time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("formtype", func(fl validator.FieldLevel) bool {
		return models.IsFormType(fl.Field().String())
	})
	return v
}

// Create validates a public form payload and stores it with defaults
// applied.
func (s *SubmissionService) Create(ctx context.Context, in models.SubmissionInput) (*models.Submission, error) {
	in = trimInput(in)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	sub := in.ToSubmission(s.now().UTC())
	id, err := s.subs.Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}
	sub.ID = id
	metrics.SubmissionsCreated.WithLabelValues(sub.FormType).Inc()
	return sub, nil
}

func (s *SubmissionService) List(ctx context.Context) ([]models.Submission, error) {
	subs, err := s.subs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// UpdateStatus overwrites the status of submission id. Any label is
// accepted and an unknown id is not an error.
func (s *SubmissionService) UpdateStatus(ctx context.Context, id, status string) error {
	if err := s.subs.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update submission %s: %w", id, err)
	}
	return nil
}

// Delete removes submission id. An unknown id is not an error.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	if err := s.subs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete submission %s: %w", id, err)
	}
	return nil
}

// ExportCSV renders every stored submission as CSV.
func (s *SubmissionService) ExportCSV(ctx context.Context) ([]byte, error) {
	subs, err := s.subs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load submissions for export: %w", err)
	}
	return RenderCSV(subs, s.loc), nil
}

// Stats counts stored submissions per form type and per status. Every
// known form type is present even when its count is zero.
func (s *SubmissionService) Stats(ctx context.Context) (*models.SubmissionStats, error) {
	subs, err := s.subs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load submissions for stats: %w", err)
	}
	stats := &models.SubmissionStats{
		Total:      len(subs),
		ByFormType: make(map[string]int, len(models.FormTypes)),
		ByStatus:   map[string]int{},
	}
	for _, ft := range models.FormTypes {
		stats.ByFormType[ft] = 0
	}
	for _, sub := range subs {
		stats.ByFormType[sub.FormType]++
		stats.ByStatus[sub.Status]++
	}
	return stats, nil
}

func trimInput(in models.SubmissionInput) models.SubmissionInput {
	v := reflect.ValueOf(&in).Elem()
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Kind() == reflect.String {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
	return in
}

func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Msg: err.Error()}
	}
	fe := errs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fe.Field() + " is required"
	case "formtype":
		msg = fe.Field() + " must be one of " + strings.Join(models.FormTypes, ", ")
	case "email":
		msg = fe.Field() + " must be a valid email address"
	case "max":
		msg = fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		msg = fe.Field() + " is invalid"
	}
	return &ValidationError{Msg: msg}
}

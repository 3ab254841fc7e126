package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/iiviie/bbsfront/internal/client"
	"github.com/iiviie/bbsfront/internal/models"
)

var (
	// ErrThrottled is set on outcomes rejected by the throttle window.
	ErrThrottled = errors.New("submission throttled")
	// ErrInvalidForm is set on outcomes with a missing field.
	ErrInvalidForm = errors.New("invalid form")
)

// User facing messages.
const (
	MessageInvalid = "Please fill in name, password and content."
	MessagePosted  = "Post completed!"
	MessageFailed  = "An error occurred while posting."
	MessageHint    = "Check the server log for details; the API may be unreachable or refusing the request."
)

// Level is the severity of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Kind classifies the outcome of a submission.
type Kind string

const (
	KindPosted    Kind = "posted"
	KindThrottled Kind = "throttled"
	KindInvalid   Kind = "invalid"
	KindFailed    Kind = "failed"
)

// Notice is a message for the user.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Outcome is the structured result of a submission. Form holds the values
// to show in the form afterwards: empty when cleared, as entered otherwise.
type Outcome struct {
	Kind    Kind              `json:"kind"`
	Notice  Notice            `json:"notice"`
	Cleared bool              `json:"cleared"`
	Form    models.Form       `json:"-"`
	Fields  map[string]string `json:"fields,omitempty"`
	Result  any               `json:"result,omitempty"`
	Table   *models.Table     `json:"table,omitempty"`
	Err     error             `json:"-"`
}

// Poster creates posts on the API.
type Poster interface {
	CreatePost(ctx context.Context, form models.Form) (*client.Result, error)
}

// Refresher re-renders the board.
type Refresher interface {
	Refresh(ctx context.Context) models.Table
}

// Submitter validates, throttles and sends post submissions.
type Submitter struct {
	poster    Poster
	refresher Refresher
	throttle  *Throttle
	validate  *validator.Validate
	log       logrus.FieldLogger
	now       func() time.Time
}

// New creates a submitter.
func New(poster Poster, refresher Refresher, throttle *Throttle, log logrus.FieldLogger) *Submitter {
	return &Submitter{
		poster:    poster,
		refresher: refresher,
		throttle:  throttle,
		validate:  validator.New(),
		log:       log.WithField("component", "submit"),
		now:       time.Now,
	}
}

// Submit handles one submission from the client identified by key. The
// throttle window is claimed before the API call and given back when the
// submission is invalid or fails. On success the board refresh completes
// before Submit returns.
func (s *Submitter) Submit(ctx context.Context, key string, form models.Form) Outcome {
	started := s.now()

	release, ok := s.throttle.Reserve(key, started)
	if !ok {
		return Outcome{
			Kind:   KindThrottled,
			Notice: Notice{Level: LevelWarning, Message: throttledMessage(s.throttle.Window())},
			Form:   form,
			Err:    ErrThrottled,
		}
	}

	trimmed := form.Trimmed()
	if fields := s.check(trimmed); len(fields) > 0 {
		release()
		return Outcome{
			Kind:   KindInvalid,
			Notice: Notice{Level: LevelWarning, Message: MessageInvalid},
			Form:   form,
			Fields: fields,
			Err:    ErrInvalidForm,
		}
	}

	res, err := s.poster.CreatePost(ctx, trimmed)
	if err != nil {
		release()
		s.log.WithError(err).Error("Failed to submit post")
		return Outcome{
			Kind:   KindFailed,
			Notice: Notice{Level: LevelError, Message: failureMessage(err)},
			Form:   form,
			Err:    err,
		}
	}

	s.log.WithFields(logrus.Fields{
		"message":     res.Message(),
		"placeholder": res.Placeholder,
	}).Info("Post submitted")

	table := s.refresher.Refresh(ctx)

	return Outcome{
		Kind:    KindPosted,
		Notice:  Notice{Level: LevelSuccess, Message: MessagePosted},
		Cleared: true,
		Result:  res.Data,
		Table:   &table,
	}
}

// check returns the missing fields keyed by their form name.
func (s *Submitter) check(f models.Form) map[string]string {
	err := s.validate.Struct(f)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			name := strings.ToLower(e.StructField())
			fields[name] = fmt.Sprintf("The field '%s' is %s.", name, e.Tag())
		}
		return fields
	}
	fields["form"] = err.Error()
	return fields
}

func throttledMessage(window time.Duration) string {
	if window == time.Second {
		return "You can post at most once per second. Please wait a moment."
	}
	return fmt.Sprintf("You can post at most once every %s. Please wait a moment.", window)
}

func failureMessage(err error) string {
	detail := err.Error()
	if se, ok := client.IsStatus(err); ok {
		detail = "post failed: " + se.Error()
	}
	return MessageFailed + "\n" + detail + "\n" + MessageHint
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gocolly/colly/v2"
	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/iiviie/bbsfront/internal/config"
	"github.com/iiviie/bbsfront/internal/models"
)

// PlaceholderMessage stands in for a success body that is not JSON.
const PlaceholderMessage = "posted (no response body)"

// Client talks to the board API: GET lists posts, POST with query
// parameters creates one.
type Client struct {
	collector *colly.Collector
	breaker   *gobreaker.CircuitBreaker
	baseURL   *url.URL
	shape     string
	log       logrus.FieldLogger
}

// Result is the decoded body of a successful write.
type Result struct {
	Data        any
	Placeholder bool
}

// Message returns the message field of the result, if any.
func (r *Result) Message() string {
	if m, ok := r.Data.(map[string]any); ok {
		if s, ok := m["message"].(string); ok {
			return s
		}
	}
	return ""
}

type reply struct {
	status int
	body   []byte
}

// New creates a client for the configured API
func New(cfg config.APIConfig, log logrus.FieldLogger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	opts := []colly.CollectorOption{
		colly.AllowedDomains(base.Hostname(), base.Host),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(cfg.UserAgent))
	}
	c := colly.NewCollector(opts...)
	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}
	if cfg.Parallelism > 0 {
		if err := c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: cfg.Parallelism,
		}); err != nil {
			return nil, fmt.Errorf("set limit rule: %w", err)
		}
	}

	maxFailures := cfg.Breaker.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	log = log.WithField("component", "client")
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "bbs-api",
		Timeout: cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			se, ok := IsStatus(err)
			return ok && se.ClientSide()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &Client{
		collector: c,
		breaker:   cb,
		baseURL:   base,
		shape:     cfg.Shape,
		log:       log,
	}, nil
}

// BaseURL returns the endpoint used for both reads and writes.
func (cl *Client) BaseURL() string {
	return cl.baseURL.String()
}

// ListPosts fetches the post list. The body is decoded according to the
// configured response shape; posts come back in source order.
func (cl *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	r, err := cl.execute(ctx, http.MethodGet, cl.baseURL.String())
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	switch cl.shape {
	case config.ShapeList:
		posts, err = models.DecodeList(r.body)
	default:
		posts, err = models.DecodeWrapped(r.body)
	}
	if err != nil {
		return nil, fmt.Errorf("decode post list: %w", err)
	}
	return posts, nil
}

// CreatePost submits a post. All fields travel in the query string and
// the request has no body.
func (cl *Client) CreatePost(ctx context.Context, form models.Form) (*Result, error) {
	vals, err := query.Values(form)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	u := *cl.baseURL
	q := u.Query()
	for k, v := range vals {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	r, err := cl.execute(ctx, http.MethodPost, u.String())
	if err != nil {
		return nil, err
	}

	var data any
	if err := json.Unmarshal(r.body, &data); err != nil {
		return &Result{
			Data:        map[string]any{"message": PlaceholderMessage},
			Placeholder: true,
		}, nil
	}
	return &Result{Data: data}, nil
}

// execute runs one request through the circuit breaker. Non-2xx replies
// come back as *StatusError.
func (cl *Client) execute(ctx context.Context, method, target string) (*reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := cl.breaker.Execute(func() (any, error) {
		r, err := cl.do(method, target)
		if err != nil {
			return nil, err
		}
		if r.status < 200 || r.status > 299 {
			return r, newStatusError(r.status, r.body)
		}
		return r, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w (%v)", ErrUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	return out.(*reply), nil
}

// do issues a single request on a clone of the base collector so that
// callbacks stay local to this call.
func (cl *Client) do(method, target string) (*reply, error) {
	c := cl.collector.Clone()

	var (
		resp    *colly.Response
		respErr error
	)

	c.OnRequest(func(r *colly.Request) {
		cl.log.WithFields(logrus.Fields{
			"method": r.Method,
			"url":    redact(r.URL),
		}).Debug("Requesting")
	})

	c.OnResponse(func(r *colly.Response) {
		resp = r
	})

	c.OnError(func(r *colly.Response, err error) {
		respErr = err
	})

	err := c.Request(method, target, nil, nil, nil)
	if err == nil {
		err = respErr
	}
	if err == nil && resp == nil {
		err = errors.New("no response received")
	}
	if err != nil {
		cl.log.WithError(err).WithField("method", method).Error("Request failed")
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, cl.baseURL.Host, err)
	}

	cl.log.WithFields(logrus.Fields{
		"method": method,
		"status": resp.StatusCode,
	}).Debug("Response received")

	return &reply{status: resp.StatusCode, body: resp.Body}, nil
}

// redact hides the pass query parameter in logged URLs.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	q := c.Query()
	if q.Has("pass") {
		q.Set("pass", "***")
		c.RawQuery = q.Encode()
	}
	return c.String()
}

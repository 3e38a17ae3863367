package siyavula

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/practice"
)

const (
	breakerName      = "siyavula"
	breakerThreshold = 5
	breakerTimeout   = 30 * time.Second
)

var errServerStatus = errors.New("provider server error")

// callerGoneError is a failure caused by the LMS caller leaving, not by the provider.
type callerGoneError struct{ error }

func (e callerGoneError) Unwrap() error { return e.error }

// asCallerGone marks err when ctx was cancelled or expired before the provider answered.
func asCallerGone(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return callerGoneError{err}
	}
	return err
}

// breakerSuccess keeps caller cancellations from tripping the breaker shared by all users.
func breakerSuccess(err error) bool {
	var gone callerGoneError
	return err == nil || errors.As(err, &gone)
}

// Client is the Siyavula API client. It owns the client token.
type Client struct {
	http   *resty.Client
	cb     *gobreaker.CircuitBreaker
	creds  getTokenRequest
	log    core.Logger
	token  tokenCell
	passwd func() (string, error)
}

var _ practice.Provider = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	sc := conf.Siyavula
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(sc.BaseURL, "/")).
		SetTimeout(sc.Timeout).
		SetHeader("Accept", "application/json")

	cbSettings := gobreaker.Settings{
		Name:         breakerName,
		MaxRequests:  1,
		Timeout:      breakerTimeout,
		IsSuccessful: breakerSuccess,
		ReadyToTrip:  func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				logger.Warn("circuit breaker opened", "breaker", name)
			case gobreaker.StateHalfOpen, gobreaker.StateClosed:
				logger.Info("circuit breaker "+to.String(), "breaker", name)
			}
		},
	}

	return &Client{
		http: httpClient,
		cb:   gobreaker.NewCircuitBreaker(cbSettings),
		creds: getTokenRequest{
			Name:       sc.Name,
			Password:   sc.Password,
			Region:     sc.Region,
			Curriculum: sc.Curriculum,
		},
		log:    logger,
		passwd: randomPassword,
	}
}

// ClientToken returns the current client token, obtaining one if none is held.
// Concurrent callers share a single in-flight fetch. It is detached from the caller's
// cancellation and bounded by the client timeout.
func (c *Client) ClientToken(ctx context.Context) (string, error) {
	if tok := c.token.get(); tok != "" {
		return tok, nil
	}
	v, err, _ := c.token.group.Do("client-token", func() (interface{}, error) {
		if tok := c.token.get(); tok != "" { // fetched while we were waiting
			return tok, nil
		}
		return c.ObtainClientToken(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ObtainClientToken exchanges the organisation credentials for a new client token and caches it.
func (c *Client) ObtainClientToken(ctx context.Context) (string, error) {
	const op = "get-token"
	var res tokenResponse
	_, err := c.call(ctx, op, func(req *resty.Request) (*resty.Response, error) {
		return req.SetBody(c.creds).SetResult(&res).Post(pathGetToken)
	})
	if err == nil && res.Token == "" {
		err = practice.NewError(practice.KindProviderUnavailable, op, errors.New("no token in response"))
	}
	if err != nil {
		c.log.Critical("siyavula integration unavailable", err)
		return "", err
	}
	c.token.set(res.Token)
	return res.Token, nil
}

func (c *Client) InvalidateClientToken(token string) {
	if c.token.clear(token) {
		c.log.Warn("siyavula client token dropped")
	}
}

// ObtainUserToken mints a user token. Users are registered under their LMS id.
func (c *Client) ObtainUserToken(ctx context.Context, clientToken string, identity practice.RemoteIdentity) (string, error) {
	const op = "user-token"
	if identity.RemoteAccountID == "" {
		return "", errors.Errorf("user %d has no remote account", identity.UserID)
	}

	var res tokenResponse
	_, err := c.call(ctx, op, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetHeader(headerClientToken, clientToken).
			SetPathParam("external_user_id", strconv.Itoa(identity.UserID)).
			SetResult(&res).
			Get(pathUserToken)
	})
	if err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", practice.NewError(practice.KindProviderUnavailable, op, errors.New("no token in response"))
	}
	return res.Token, nil
}

// CreateRemoteAccount registers the user with a throwaway password and returns the account uuid.
func (c *Client) CreateRemoteAccount(ctx context.Context, clientToken string, profile practice.AccountProfile) (string, error) {
	const op = "create-account"
	pwd, err := c.passwd()
	if err != nil {
		return "", errors.Wrap(err, "generating password")
	}

	body := createUserRequest{
		ExternalUserID: strconv.Itoa(profile.UserID),
		Password:       pwd,
		Role:           profile.Role,
		Name:           profile.Name,
		Surname:        profile.Surname,
		Grade:          profile.Grade,
		Country:        profile.Country,
		Curriculum:     profile.Curriculum,
		Email:          profile.Email,
	}
	var res createUserResponse
	_, err = c.call(ctx, op, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetHeader(headerClientToken, clientToken).
			SetBody(body).
			SetResult(&res).
			Post(pathCreateUser)
	})
	if err != nil {
		return "", err
	}
	if res.UUID == "" {
		return "", practice.NewError(practice.KindProviderUnavailable, op, errors.New("no uuid in response"))
	}
	return res.UUID, nil
}

// Forward issues a practice operation. The response is returned as is, whatever its status.
func (c *Client) Forward(ctx context.Context, clientToken, userToken string, op practice.Operation) (practice.RawResponse, error) {
	opName := op.Kind.String()

	result, err := c.cb.Execute(func() (interface{}, error) {
		req := c.http.R().
			SetContext(ctx).
			SetHeader(headerClientToken, clientToken).
			SetHeader(headerUserToken, "JWT "+userToken)

		var (
			resp *resty.Response
			err  error
		)
		switch op.Kind {
		case practice.OpCreateActivity:
			resp, err = req.SetPathParam("section_id", strconv.Itoa(op.SectionID)).Get(pathCreateActivity)
		case practice.OpSubmitAnswer:
			resp, err = sessionRequest(req, op).SetFormDataFromValues(op.Answers).Post(pathSubmitAnswer)
		case practice.OpNextQuestion:
			resp, err = sessionRequest(req, op).Get(pathNextQuestion)
		case practice.OpRetry:
			resp, err = sessionRequest(req, op).Get(pathRetry)
		default:
			return nil, errors.Errorf("unsupported operation %s", opName)
		}
		if err != nil {
			return nil, asCallerGone(ctx, err)
		}
		return resp, nil // any status is relayed
	})
	if err != nil {
		return practice.RawResponse{}, practice.NewError(practice.KindProviderUnavailable, opName, err)
	}

	resp := result.(*resty.Response)
	return practice.RawResponse{
		StatusCode:  resp.StatusCode(),
		Body:        resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
	}, nil
}

func sessionRequest(req *resty.Request, op practice.Operation) *resty.Request {
	return req.SetPathParams(map[string]string{
		"activity_uuid": op.Session.ActivityUUID,
		"response_uuid": op.Session.ResponseUUID,
	})
}

// call runs a token/account request through the circuit breaker and classifies its outcome.
// Transport failures and 5xx count against the breaker.
func (c *Client) call(ctx context.Context, op string, do func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := do(c.http.R().SetContext(ctx))
		if err != nil {
			return nil, asCallerGone(ctx, err)
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	resp, _ := result.(*resty.Response)
	if err != nil {
		pErr := practice.NewError(practice.KindProviderUnavailable, op, err)
		if resp != nil {
			pErr.StatusCode = resp.StatusCode()
		}
		return resp, pErr
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return resp, &practice.Error{Kind: practice.KindProviderAuthRejected, Op: op, StatusCode: code}
	case !resp.IsSuccess():
		return resp, &practice.Error{Kind: practice.KindProviderUnavailable, Op: op, StatusCode: code}
	}
	return resp, nil
}

// randomPassword returns 10 random bytes, base64url encoded. It is never stored.
func randomPassword() (string, error) {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

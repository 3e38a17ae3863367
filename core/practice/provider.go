package practice

import (
	"context"
	"fmt"
	"net/url"

	"github.com/trezcool/masomo-lms/core/user"
)

// OperationKind is one of the four practice calls forwarded to the provider.
type OperationKind int

const (
	OpCreateActivity OperationKind = iota + 1
	OpSubmitAnswer
	OpNextQuestion
	OpRetry
)

func (k OperationKind) String() string {
	switch k {
	case OpCreateActivity:
		return "create-activity"
	case OpSubmitAnswer:
		return "submit-answer"
	case OpNextQuestion:
		return "next-question"
	case OpRetry:
		return "retry"
	default:
		return fmt.Sprintf("operation(%d)", int(k))
	}
}

type (
	// SessionIDs identify a provider practice session.
	SessionIDs struct {
		ActivityUUID string `json:"activity_uuid"`
		ResponseUUID string `json:"response_uuid"`
	}

	Operation struct {
		Kind      OperationKind
		SectionID int        // OpCreateActivity
		Session   SessionIDs // every other kind
		Answers   url.Values // OpSubmitAnswer, sent as form data
	}

	// RawResponse is a provider response, relayed as received.
	RawResponse struct {
		StatusCode  int
		Body        []byte
		ContentType string
	}

	// RemoteIdentity is what the provider needs to mint a user token.
	RemoteIdentity struct {
		UserID          int
		RemoteAccountID string
	}

	// AccountProfile is sent to the provider on account creation.
	AccountProfile struct {
		UserID     int
		Name       string
		Surname    string
		Email      string
		Role       string
		Grade      int
		Country    string
		Curriculum string
	}
)

func ProfileOf(usr user.User) AccountProfile {
	return AccountProfile{
		UserID:     usr.ID,
		Name:       usr.Name,
		Surname:    usr.Surname,
		Email:      usr.Email,
		Role:       usr.Role,
		Grade:      usr.Grade,
		Country:    usr.Country,
		Curriculum: usr.Curriculum,
	}
}

//go:generate mockgen -destination=mocks/mock_practice.go -package=mocks github.com/trezcool/masomo-lms/core/practice Provider,UserStore,Locker

type (
	// Provider talks to the practice content provider.
	// Token and account methods fail with *Error values of kind
	// KindProviderUnavailable or KindProviderAuthRejected.
	Provider interface {
		// ClientToken returns the process-wide client token, obtaining one if none is held.
		ClientToken(ctx context.Context) (string, error)
		// InvalidateClientToken drops `token` if it is still the current one.
		InvalidateClientToken(token string)
		ObtainUserToken(ctx context.Context, clientToken string, identity RemoteIdentity) (string, error)
		CreateRemoteAccount(ctx context.Context, clientToken string, profile AccountProfile) (string, error)
		// Forward issues `op` and returns the response whatever its status.
		// An error means no response was received.
		Forward(ctx context.Context, clientToken, userToken string, op Operation) (RawResponse, error)
	}

	// UserStore is the LMS user record store.
	UserStore interface {
		GetByID(ctx context.Context, id int) (user.User, error)
		// SetRemoteAccountID is write-once and returns the user as stored.
		SetRemoteAccountID(ctx context.Context, id int, remoteID string) (user.User, error)
	}

	// Locker serializes remote account provisioning per user.
	Locker interface {
		Acquire(ctx context.Context, key string) (release func(), err error)
	}
)

package practice

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

// Gateway runs practice requests against the provider on behalf of LMS users:
// it resolves the user, provisions their remote account on first use,
// mints a fresh user token and forwards exactly one operation.
type Gateway struct {
	provider Provider
	users    UserStore
	locker   Locker // nil: concurrent first requests may each create a remote account
	log      core.Logger
}

func NewGateway(provider Provider, users UserStore, locker Locker, logger core.Logger) *Gateway {
	return &Gateway{
		provider: provider,
		users:    users,
		locker:   locker,
		log:      logger,
	}
}

// Warm obtains the client token ahead of the first practice request.
func (gw *Gateway) Warm(ctx context.Context) error {
	if _, err := gw.provider.ClientToken(ctx); err != nil {
		return NewError(KindIntegrationUnavailable, "warm", err)
	}
	return nil
}

func (gw *Gateway) CreateActivity(ctx context.Context, userID, sectionID int) (RawResponse, error) {
	return gw.run(ctx, userID, Operation{Kind: OpCreateActivity, SectionID: sectionID})
}

func (gw *Gateway) SubmitAnswer(ctx context.Context, userID int, ids SessionIDs, answers url.Values) (RawResponse, error) {
	return gw.run(ctx, userID, Operation{Kind: OpSubmitAnswer, Session: ids, Answers: answers})
}

func (gw *Gateway) NextQuestion(ctx context.Context, userID int, ids SessionIDs) (RawResponse, error) {
	return gw.run(ctx, userID, Operation{Kind: OpNextQuestion, Session: ids})
}

func (gw *Gateway) Retry(ctx context.Context, userID int, ids SessionIDs) (RawResponse, error) {
	return gw.run(ctx, userID, Operation{Kind: OpRetry, Session: ids})
}

// run validates identifiers and resolves the user before any provider call.
func (gw *Gateway) run(ctx context.Context, userID int, op Operation) (RawResponse, error) {
	opName := op.Kind.String()

	op, err := normalize(op)
	if err != nil {
		return RawResponse{}, err
	}

	usr, err := gw.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return RawResponse{}, NewError(KindUnknownUser, opName, fmt.Errorf("user %d", userID))
		}
		return RawResponse{}, errors.Wrap(err, "resolving user")
	}

	clientToken, err := gw.provider.ClientToken(ctx)
	if err != nil { // logged by the provider
		return RawResponse{}, NewError(KindIntegrationUnavailable, opName, err)
	}

	usr, err = gw.provision(ctx, clientToken, usr)
	if err != nil {
		return RawResponse{}, err
	}

	userToken, err := gw.provider.ObtainUserToken(ctx, clientToken, RemoteIdentity{
		UserID:          usr.ID,
		RemoteAccountID: usr.RemoteAccountID,
	})
	if err != nil {
		gw.providerFailed(clientToken, err, usr, "user-token")
		return RawResponse{}, err
	}

	resp, err := gw.provider.Forward(ctx, clientToken, userToken, op)
	if err != nil {
		gw.log.Error("forwarding practice operation", err, usr, "op", opName)
		return RawResponse{}, err
	}
	return resp, nil
}

// provision creates the user's remote account if it has none, and links it.
func (gw *Gateway) provision(ctx context.Context, clientToken string, usr user.User) (user.User, error) {
	if usr.HasRemoteAccount() {
		return usr, nil
	}

	if gw.locker != nil {
		release, err := gw.locker.Acquire(ctx, provisionKey(usr.ID))
		if err != nil {
			return usr, errors.Wrap(err, "acquiring provisioning lock")
		}
		defer release()

		// may have been provisioned while waiting
		if usr, err = gw.users.GetByID(ctx, usr.ID); err != nil {
			return usr, errors.Wrap(err, "re-reading user")
		}
		if usr.HasRemoteAccount() {
			return usr, nil
		}
	}

	remoteID, err := gw.provider.CreateRemoteAccount(ctx, clientToken, ProfileOf(usr))
	if err != nil {
		gw.providerFailed(clientToken, err, usr, "create-account")
		return usr, err
	}

	stored, err := gw.users.SetRemoteAccountID(ctx, usr.ID, remoteID)
	if err != nil {
		gw.log.Error("remote account created but not linked", err, usr, "remote_account_id", remoteID)
		return usr, errors.Wrap(err, "linking remote account")
	}
	if stored.RemoteAccountID != remoteID {
		gw.log.Warn("duplicate remote account created", usr, "kept", stored.RemoteAccountID, "orphan", remoteID)
	}
	return stored, nil
}

// providerFailed logs a token/account failure and drops a rejected client token
// so that the next request fetches a new one.
func (gw *Gateway) providerFailed(clientToken string, err error, usr user.User, step string) {
	if errors.Is(err, ErrProviderAuthRejected) {
		gw.provider.InvalidateClientToken(clientToken)
	}
	gw.log.Critical("siyavula integration degraded", err, usr, "step", step)
}

func provisionKey(userID int) string {
	return fmt.Sprintf("siyavula:provision:%d", userID)
}

// normalize checks the identifiers of `op` and puts uuids in canonical form.
func normalize(op Operation) (Operation, error) {
	opName := op.Kind.String()
	switch op.Kind {
	case OpCreateActivity:
		if op.SectionID <= 0 {
			return op, NewError(KindInvalidIdentifier, opName, fmt.Errorf("section_id %d", op.SectionID))
		}
	case OpSubmitAnswer, OpNextQuestion, OpRetry:
		act, err := parseUUID("activity_uuid", op.Session.ActivityUUID)
		if err != nil {
			return op, NewError(KindInvalidIdentifier, opName, err)
		}
		resp, err := parseUUID("response_uuid", op.Session.ResponseUUID)
		if err != nil {
			return op, NewError(KindInvalidIdentifier, opName, err)
		}
		op.Session = SessionIDs{ActivityUUID: act, ResponseUUID: resp}
	default:
		return op, errors.Errorf("unsupported operation %s", opName)
	}
	return op, nil
}

func parseUUID(field, s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", errors.Wrapf(err, "%s %q", field, s)
	}
	return id.String(), nil
}

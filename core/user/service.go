package user

import (
	"context"
	"net/mail"
	texttmpl "text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var welcomeTmpl = texttmpl.Must(texttmpl.New("welcome").Parse(
	`Hi {{.Name}},

Your {{.Role}} account has been created. You can now sign in with {{.Email}}.
`))

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateUser(ctx context.Context, user User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, user User) (User, error)
		// SetRemoteAccountID stores remoteID unless the user already has one.
		// The user as stored after the call is returned.
		SetRemoteAccountID(ctx context.Context, id int, remoteID string) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) CheckUniqueness(ctx context.Context, email string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		Email:      nu.Email,
		Name:       nu.Name,
		Surname:    nu.Surname,
		Grade:      nu.Grade,
		Country:    nu.Country,
		Curriculum: nu.Curriculum,
		Role:       nu.Role,
		CreatedAt:  time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}

	if svc.mailSvc != nil {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name + " " + usr.Surname, Address: usr.Email}},
			Subject:      "Welcome",
			Template:     welcomeTmpl,
			TemplateData: usr,
		})
	}
	return usr, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Authenticate returns the user matching the credentials, or ErrInvalidCredentials.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *Service) SetPassword(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if err := ValidatePassword(pwd, usr); err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdateUser(ctx, usr)
}

// SetRemoteAccountID links the user to a Siyavula account. The first stored id wins.
func (svc *Service) SetRemoteAccountID(ctx context.Context, id int, remoteID string) (User, error) {
	return svc.repo.SetRemoteAccountID(ctx, id, remoteID)
}

// EnsureUser creates the user described by `nu` unless its email is taken, without validation or email.
// Used to seed the demo account.
func (svc *Service) EnsureUser(ctx context.Context, nu NewUser) (User, bool, error) {
	usr, err := svc.GetByEmail(ctx, nu.Email)
	if err == nil {
		return usr, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, false, err
	}

	usr = User{
		Email:      core.CleanString(nu.Email, true /* lower */),
		Name:       nu.Name,
		Surname:    nu.Surname,
		Grade:      nu.Grade,
		Country:    nu.Country,
		Curriculum: nu.Curriculum,
		Role:       nu.Role,
		CreatedAt:  time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, false, errors.Wrap(err, "hashing password")
	}
	usr, err = svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, false, err
	}
	return usr, true, nil
}

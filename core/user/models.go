package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-lms/core"
)

// Roles
const (
	RoleLearner = "Learner"
	RoleTeacher = "Teacher"
)

// Curricula supported by Siyavula
const (
	CurriculumCAPS    = "CAPS"
	CurriculumNG      = "NG"
	CurriculumCBC     = "CBC"
	CurriculumCBCKNEC = "CBC_KNEC"
	CurriculumINTL    = "INTL"
)

var (
	AllRoles     = []string{RoleLearner, RoleTeacher}
	AllCurricula = []string{CurriculumCAPS, CurriculumNG, CurriculumCBC, CurriculumCBCKNEC, CurriculumINTL}
)

type User struct {
	ID         int    `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Grade      int    `json:"grade"`
	Country    string `json:"country"`
	Curriculum string `json:"curriculum"`
	Role       string `json:"role"`
	// RemoteAccountID is the Siyavula account linked to this user. Set once, on first practice.
	RemoteAccountID string    `json:"siyavula_account_id,omitempty"`
	PasswordHash    []byte    `json:"-"`
	CreatedAt       time.Time `json:"created_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) HasRemoteAccount() bool {
	return u.RemoteAccountID != ""
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Email      string `json:"email" validate:"required,email,max=120"`
	Name       string `json:"name" validate:"required,notblank,max=50"`
	Surname    string `json:"surname" validate:"required,notblank,max=50"`
	Password   string `json:"password" validate:"required"`
	Grade      int    `json:"grade" validate:"required,min=1,max=12"`
	Country    string `json:"country" validate:"required,max=50"`
	Curriculum string `json:"curriculum" validate:"required,curriculum"`
	Role       string `json:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Name = core.CleanString(nu.Name)
	nu.Surname = core.CleanString(nu.Surname)
	nu.Country = core.CleanString(nu.Country)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Email)
}

// DemoUser describes the account seeded at startup.
func DemoUser(email, pwd string) NewUser {
	return NewUser{
		Email:      email,
		Name:       "Demo",
		Surname:    "User",
		Password:   pwd,
		Grade:      10,
		Country:    "ZA",
		Curriculum: CurriculumCAPS,
		Role:       RoleTeacher,
	}
}

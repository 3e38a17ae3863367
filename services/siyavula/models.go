package siyavula

const (
	pathGetToken       = "/api/siyavula/v1/get-token"
	pathUserToken      = "/api/siyavula/v1/user/{external_user_id}/token"
	pathCreateUser     = "/api/siyavula/v1/user"
	pathCreateActivity = "/api/siyavula/v1/activity/create/practice/{section_id}"
	pathSubmitAnswer   = "/api/siyavula/v1/activity/{activity_uuid}/response/{response_uuid}/submit-answer"
	pathNextQuestion   = "/api/siyavula/v1/activity/{activity_uuid}/response/{response_uuid}/next"
	pathRetry          = "/api/siyavula/v1/activity/{activity_uuid}/response/{response_uuid}/retry"

	headerClientToken = "JWT"
	headerUserToken   = "Authorization" // "JWT <user token>"
)

type (
	getTokenRequest struct {
		Name       string `json:"name"`
		Password   string `json:"password"`
		Region     string `json:"region"`
		Curriculum string `json:"curriculum"`
	}

	tokenResponse struct {
		Token string `json:"token"`
	}

	createUserRequest struct {
		ExternalUserID string `json:"external_user_id"`
		Password       string `json:"password"`
		Role           string `json:"role"`
		Name           string `json:"name"`
		Surname        string `json:"surname"`
		Grade          int    `json:"grade"`
		Country        string `json:"country"`
		Curriculum     string `json:"curriculum"`
		Email          string `json:"email"`
	}

	createUserResponse struct {
		UUID string `json:"uuid"`
	}
)

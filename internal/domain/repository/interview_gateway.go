package repository

import (
	"context"
	"io"

	"github.com/prepdeck/prepdeck/internal/domain/entity"
)

// InterviewGateway defines the interface to the remote Interview Service.
// Every call is one request/response round trip; the caller serializes
// them (at most one in flight).
type InterviewGateway interface {
	Register(ctx context.Context, reg entity.Registration) (entity.AuthGrant, error)
	Login(ctx context.Context, creds entity.Credentials) (entity.AuthGrant, error)

	// ValidateToken probes the service with the held token; a nil error
	// means the token is still accepted.
	ValidateToken(ctx context.Context, token string) error

	UploadResume(ctx context.Context, token, filename string, content io.Reader) (entity.ResumeReceipt, error)
	StartInterview(ctx context.Context, token string, setup entity.InterviewSetup) (*entity.Interview, error)
	SubmitResponse(ctx context.Context, token, questionID, answer string) (entity.SubmissionResult, error)
	History(ctx context.Context, token string) ([]entity.InterviewRecord, error)
}

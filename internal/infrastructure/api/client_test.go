package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prepdeck/prepdeck/internal/domain/entity"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, testLogger())
}

func TestLoginRequestShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "dev@example.com" || body["password"] != "secret123" {
			t.Fatalf("unexpected body %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"token_type":   "bearer",
			"user":         map[string]string{"id": "u-1", "email": "dev@example.com", "name": "Dev"},
		})
	})

	grant, err := client.Login(context.Background(), entity.Credentials{Email: "dev@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if grant.Token != "tok-1" {
		t.Fatalf("token = %q, want tok-1", grant.Token)
	}
	if grant.User.Name != "Dev" {
		t.Fatalf("user = %+v", grant.User)
	}
}

func TestErrorDetailSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid email or password"})
	})

	_, err := client.Login(context.Background(), entity.Credentials{Email: "dev@example.com", Password: "wrong"})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Detail != "Invalid email or password" {
		t.Fatalf("detail = %q", apiErr.Detail)
	}
	if apiErr.Error() != "Invalid email or password" {
		t.Fatalf("Error() = %q", apiErr.Error())
	}
}

func TestErrorWithoutDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	})

	err := client.ValidateToken(context.Background(), "tok-1")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Detail != "" {
		t.Fatalf("detail = %q, want empty", apiErr.Detail)
	}
	if !strings.Contains(apiErr.Error(), "502") {
		t.Fatalf("Error() = %q, want status mention", apiErr.Error())
	}
}

func TestValidateTokenSendsBearer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/interview-history" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"interviews": []any{}})
	})

	if err := client.ValidateToken(context.Background(), "tok-1"); err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
}

func TestUploadResumeMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload-resume" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("authorization = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "resume.pdf" {
			t.Fatalf("filename = %q", header.Filename)
		}
		b, _ := io.ReadAll(file)
		if string(b) != "%PDF-1.4 test" {
			t.Fatalf("content = %q", b)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"message":      "Resume uploaded successfully",
			"resume_id":    "r-1",
			"text_preview": "test",
		})
	})

	receipt, err := client.UploadResume(context.Background(), "tok-1", "resume.pdf", strings.NewReader("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("UploadResume() error: %v", err)
	}
	if receipt.ResumeID != "r-1" {
		t.Fatalf("receipt = %+v", receipt)
	}
}

func TestStartInterviewMapsAggregate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["job_role"] != "Backend Engineer" || body["experience_level"] != "senior" || body["interview_type"] != "text" {
			t.Fatalf("unexpected body %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"interview_id": "iv-1",
			"questions": []map[string]string{
				{"id": "q-1", "question": "Why Go?", "type": "technical"},
				{"id": "q-2", "question": "Tell me about a project.", "type": "behavioral"},
			},
			"total_questions": 2,
		})
	})

	setup := entity.InterviewSetup{JobRole: "Backend Engineer", ExperienceLevel: entity.ExperienceSenior, InterviewType: entity.InterviewText}
	iv, err := client.StartInterview(context.Background(), "tok-1", setup)
	if err != nil {
		t.Fatalf("StartInterview() error: %v", err)
	}
	if iv.ID != "iv-1" || iv.TotalQuestions() != 2 {
		t.Fatalf("interview = %+v", iv)
	}
	if iv.Questions[0].ID != "q-1" || iv.Questions[1].Type != "behavioral" {
		t.Fatalf("questions = %+v", iv.Questions)
	}
}

func TestSubmitResponseRoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["question_id"] != "q-1" || body["answer"] != "I built APIs." {
			t.Fatalf("unexpected body %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"completed": true,
			"feedback":  "Well done.",
		})
	})

	res, err := client.SubmitResponse(context.Background(), "tok-1", "q-1", "I built APIs.")
	if err != nil {
		t.Fatalf("SubmitResponse() error: %v", err)
	}
	if !res.Completed || res.Feedback != "Well done." {
		t.Fatalf("result = %+v", res)
	}
}

func TestHistoryUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"interviews": []map[string]any{
				{"id": "iv-1", "job_role": "Backend Engineer", "status": "completed"},
				{"id": "iv-2", "job_role": "Data Engineer", "status": "in_progress"},
			},
		})
	})

	records, err := client.History(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(records) != 2 || records[1].JobRole != "Data Engineer" {
		t.Fatalf("records = %+v", records)
	}
}

func TestNetworkErrorPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections
	client := NewClient(srv.URL, time.Second, testLogger())

	err := client.ValidateToken(context.Background(), "tok-1")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an *Error, got %+v", apiErr)
	}
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campushub/internal/domain"
)

// APIError is a non-2xx answer from the portal API.
type APIError struct {
	Status  int
	Kind    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %d %s: %s", e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("api %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Notice is the public notice shape returned by the API.
type Notice struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	UpvoteCount int64  `json:"upvoteCount"`
}

// API is a thin JSON client. Session cookies are kept by the HTTP client's
// jar and are never exposed to callers.
type API struct {
	base string
	http *http.Client
}

// NewAPI returns a client for the server at base. The jar should be the one
// returned by NewCookieJar so the session survives restarts.
func NewAPI(base string, jar http.CookieJar) *API {
	return &API{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}
}

func (a *API) Register(ctx context.Context, name, email, password string) (domain.Identity, error) {
	var id domain.Identity
	err := a.do(ctx, http.MethodPost, "/api/auth/register",
		map[string]string{"name": name, "email": email, "password": password}, &id)
	return id, err
}

func (a *API) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	var id domain.Identity
	err := a.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &id)
	return id, err
}

func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (a *API) Notices(ctx context.Context) ([]Notice, error) {
	var out []Notice
	err := a.do(ctx, http.MethodGet, "/api/notices", nil, &out)
	return out, err
}

func (a *API) MarkRead(ctx context.Context, noticeID int64) error {
	return a.do(ctx, http.MethodPost, noticePath(noticeID, "read"), nil, nil)
}

func (a *API) ToggleUpvote(ctx context.Context, noticeID int64) (domain.UpvoteResult, error) {
	var res domain.UpvoteResult
	err := a.do(ctx, http.MethodPost, noticePath(noticeID, "upvote"), nil, &res)
	return res, err
}

func (a *API) Engagement(ctx context.Context) (domain.EngagementState, error) {
	var st domain.EngagementState
	err := a.do(ctx, http.MethodGet, "/api/me/engagement", nil, &st)
	return st, err
}

// forgetSession drops the session cookie held by the client, if its jar
// supports that.
func (a *API) forgetSession(ctx context.Context) error {
	if j, ok := a.http.Jar.(interface{ Clear(context.Context) error }); ok {
		return j.Clear(ctx)
	}
	return nil
}

func noticePath(id int64, action string) string {
	return "/api/notices/" + strconv.FormatInt(id, 10) + "/" + action
}

func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

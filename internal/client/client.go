package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	apperrors "kelfit/internal/errors"
	"kelfit/internal/model"
)

const defaultTimeout = 15 * time.Second

// ErrUnauthorized is returned when the server rejects the stored token.
var ErrUnauthorized = errors.New("not logged in or session expired")

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client talks to the kelfit API and keeps its session in a SessionStore.
type Client struct {
	baseURL string
	http    *http.Client
	store   *SessionStore

	mu      sync.RWMutex
	session Session
}

// NewClient loads the stored session before returning, so User reports the
// last known profile without contacting the server.
func NewClient(ctx context.Context, baseURL string, store *SessionStore, opts ...Option) (*Client, error) {
	session, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// User returns the last known profile, or nil when logged out.
func (c *Client) User() *model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.User
}

// LoggedIn reports whether a token is stored.
func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.LoggedIn()
}

type authResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user"`
}

// Login signs in with email and password and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account and stores the session.
func (c *Client) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
}

// GoogleSync exchanges an already verified Google identity for a session.
func (c *Client) GoogleSync(ctx context.Context, googleID, email, name string) (*model.User, error) {
	return c.authenticate(ctx, "/api/auth/google", map[string]string{
		"id":    googleID,
		"email": email,
		"name":  name,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*model.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp, false); err != nil {
		return nil, err
	}

	session := Session{Token: resp.Token, RefreshToken: resp.RefreshToken, User: resp.User}
	if err := c.setSession(ctx, session); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Refresh exchanges the stored refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()

	if session.RefreshToken == "" {
		return ErrUnauthorized
	}

	var resp authResponse
	body := map[string]string{"refresh_token": session.RefreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", body, &resp, false); err != nil {
		return err
	}

	session.Token = resp.Token
	return c.setSession(ctx, session)
}

// Logout revokes the session on the server and clears the local store. The
// local store is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.RLock()
	refresh := c.session.RefreshToken
	c.mu.RUnlock()

	var remoteErr error
	if refresh != "" {
		remoteErr = c.do(ctx, http.MethodPost, "/api/auth/logout", map[string]string{"refresh_token": refresh}, nil, true)
	}

	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	return remoteErr
}

// Config returns the public app configuration.
func (c *Client) Config(ctx context.Context) (map[string]string, error) {
	var cfg map[string]string
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &cfg, false); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Workouts lists workouts, optionally filtered by category.
func (c *Client) Workouts(ctx context.Context, category model.WorkoutCategory) ([]model.Workout, error) {
	path := "/api/workouts"
	if category != "" {
		path += "?" + url.Values{"category": {string(category)}}.Encode()
	}

	var workouts []model.Workout
	if err := c.do(ctx, http.MethodGet, path, nil, &workouts, true); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Exercises lists the exercises of a workout.
func (c *Client) Exercises(ctx context.Context, workoutID uint) ([]model.Exercise, error) {
	var exercises []model.Exercise
	path := "/api/workouts/" + strconv.FormatUint(uint64(workoutID), 10) + "/exercises"
	if err := c.do(ctx, http.MethodGet, path, nil, &exercises, true); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Challenges lists the challenges.
func (c *Client) Challenges(ctx context.Context) ([]model.Challenge, error) {
	var challenges []model.Challenge
	if err := c.do(ctx, http.MethodGet, "/api/challenges", nil, &challenges, true); err != nil {
		return nil, err
	}
	return challenges, nil
}

// Progress lists the current member's daily progress, newest first.
func (c *Client) Progress(ctx context.Context) ([]model.Progress, error) {
	var progress []model.Progress
	if err := c.do(ctx, http.MethodGet, "/api/progress", nil, &progress, true); err != nil {
		return nil, err
	}
	return progress, nil
}

// AddWater adds amount millilitres to today's water intake.
func (c *Client) AddWater(ctx context.Context, amount int) error {
	return c.do(ctx, http.MethodPost, "/api/progress/water", map[string]int{"amount": amount}, nil, true)
}

// LogWeight records today's weight.
func (c *Client) LogWeight(ctx context.Context, weight decimal.Decimal) error {
	return c.do(ctx, http.MethodPost, "/api/progress/weight", map[string]decimal.Decimal{"weight": weight}, nil, true)
}

// Profile fetches the current profile and refreshes the stored copy.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &user, true); err != nil {
		return nil, err
	}

	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()

	session.User = &user
	if err := c.setSession(ctx, session); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) setSession(ctx context.Context, session Session) error {
	if err := c.store.Save(ctx, session); err != nil {
		return err
	}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authed {
		c.mu.RLock()
		token := c.session.Token
		c.mu.RUnlock()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body apperrors.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	httpErr := apperrors.NewHTTPError(resp.StatusCode, body.Error, body.Code)
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", ErrUnauthorized, httpErr)
	}
	return httpErr
}

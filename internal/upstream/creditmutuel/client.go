package creditmutuel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/ebartels/banksync/internal/bank"
	"github.com/ebartels/banksync/internal/encoding"
)

const (
	defaultBaseURL   = "https://www.creditmutuel.fr/fr/banque"
	defaultUserAgent = "banksync/1.0"
	defaultTimeout   = 30 * time.Second

	loginPath        = "/authentification.json"
	accountsPath     = "/comptes.json"
	transactionsPath = "/comptes/%s/mouvements.json"
)

var (
	// ErrAuthFailed means the upstream rejected the credentials. Retrying
	// without new credentials is pointless.
	ErrAuthFailed = errors.New("creditmutuel: authentication failed")

	// ErrUnavailable means the upstream itself is failing (5xx class).
	// Distinct from ErrAuthFailed so callers can tell "bad credentials"
	// from "try again later".
	ErrUnavailable = errors.New("creditmutuel: service unavailable")
)

type Config struct {
	BaseURL   string
	Username  string
	Password  string
	UserAgent string
	Timeout   time.Duration
}

// Client talks to the upstream bank. The session cookie jar and base URL are
// per-client state, passed explicitly to every call site; there is no
// package-level connection state.
type Client struct {
	baseURL   *url.URL
	userAgent string
	username  string
	password  string
	http      *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &Client{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		username:  cfg.Username,
		password:  cfg.Password,
		http: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Login establishes a session. The session cookie lands in the client's jar
// and authenticates every subsequent call.
func (c *Client) Login(ctx context.Context) error {
	form := url.Values{
		"_cm_user": {c.username},
		"_cm_pwd":  {c.password},
		"flag":     {"password"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint(loginPath), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	return classifyStatus(resp.StatusCode)
}

// ListAccounts fetches the raw account records of the logged-in user.
func (c *Client) ListAccounts(ctx context.Context) ([]bank.RawAccount, error) {
	var accounts []bank.RawAccount
	if err := c.getJSON(ctx, c.endpoint(accountsPath), &accounts); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, nil
}

// ListTransactions fetches the raw transactions of one account, identified by
// its upstream account number.
//
// The records come back in whatever order the upstream chooses. Identity
// synthesis downstream assumes that order is stable for a given account and
// day across calls; the upstream does not document this, so it is a
// precondition to verify, not a guarantee.
func (c *Client) ListTransactions(ctx context.Context, number string) ([]bank.RawTransaction, error) {
	var txs []bank.RawTransaction
	if err := c.getJSON(ctx, c.endpoint(fmt.Sprintf(transactionsPath, url.PathEscape(number))), &txs); err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", number, err)
	}

	return txs, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return err
	}

	// Legacy endpoints serve Latin-1 without saying so.
	body, err := encoding.NewUTF8Reader(resp.Body)
	if err != nil {
		return fmt.Errorf("decode charset: %w", err)
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// classifyStatus maps an upstream HTTP status to the connector error
// taxonomy: 401/403 are credential failures, 5xx is the vendor being down,
// anything else non-2xx is a plain error.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuthFailed
	case status >= 500:
		return ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

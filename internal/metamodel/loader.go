package metamodel

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"gopkg.in/yaml.v3"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
)

// LoadError is a structured error with an optional location.
type LoadError struct {
	Code     ErrorCode
	Message  string
	Location string // file path or URL
	Cause    error
}

func (e *LoadError) Error() string { return e.Message }
func (e *LoadError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
	// Insecure disables TLS certificate verification.
	Insecure bool
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 30 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithInsecureSkipVerify(b bool) Option { return func(s *Settings) { s.Insecure = b } }

// Load reads, decodes, and validates a metamodel document.
//
// input may be a filesystem path or an http/https URL. The document may be
// YAML or JSON.
func Load(ctx context.Context, input string, opts ...Option) (*Metamodel, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &LoadError{Code: InputError, Message: "metamodel: input is empty"}
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	location := input
	var raw []byte

	u, uerr := url.Parse(input)
	isURL := uerr == nil && u.Scheme != "" && u.Host != ""
	if isURL {
		scheme := strings.ToLower(u.Scheme)
		if scheme == "file" {
			return nil, &LoadError{Code: InputError, Message: "metamodel: file:// URLs are not supported, pass a path instead", Location: input}
		}
		if scheme != "http" && scheme != "https" {
			return nil, &LoadError{Code: InputError, Message: fmt.Sprintf("metamodel: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
		}
		body, err := fetchWithRetry(ctx, input, settings)
		if err != nil {
			return nil, &LoadError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
		}
		raw = body
	} else {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, &LoadError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
		}
		location = abs
		body, err := os.ReadFile(abs)
		if err != nil {
			return nil, &LoadError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
		}
		raw = body
	}

	mm, err := Decode(raw)
	if err != nil {
		return nil, &LoadError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}
	if err := mm.Validate(); err != nil {
		return nil, &LoadError{Code: ValidationError, Message: err.Error(), Location: location, Cause: err}
	}
	return mm, nil
}

// Decode parses a YAML or JSON metamodel document.
func Decode(data []byte) (*Metamodel, error) {
	var mm Metamodel
	if err := yaml.Unmarshal(data, &mm); err != nil {
		return nil, fmt.Errorf("parse metamodel: %w", err)
	}
	return &mm, nil
}

// ErrInvalidMetamodel is wrapped by every Validate failure.
var ErrInvalidMetamodel = errors.New("invalid metamodel")

// Validate checks the fields the generator relies on.
func (m *Metamodel) Validate() error {
	if len(m.Packages) == 0 {
		return fmt.Errorf("%w: no packages", ErrInvalidMetamodel)
	}
	for _, p := range m.Packages {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: package without name", ErrInvalidMetamodel)
		}
		for _, s := range p.Services {
			if strings.TrimSpace(s.Name) == "" {
				return fmt.Errorf("%w: service without name in package %s", ErrInvalidMetamodel, p.Name)
			}
			for _, op := range s.Operations {
				if strings.TrimSpace(op.Name) == "" {
					return fmt.Errorf("%w: operation without name in service %s", ErrInvalidMetamodel, s.Name)
				}
				if len(op.Links) == 0 && (op.Path == "" || op.Method == "") {
					return fmt.Errorf("%w: operation %s.%s has neither path+method nor links", ErrInvalidMetamodel, s.Name, op.Name)
				}
			}
		}
	}
	return nil
}

type transientError struct {
	status int
}

func (e *transientError) Error() string { return fmt.Sprintf("transient http error %d", e.status) }

func newHTTPClient(settings Settings) *http.Client {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	if settings.Insecure {
		client.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in via --insecure
		}
	}
	return client
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := newHTTPClient(settings)
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Accept", "application/json, application/yaml")
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return &transientError{status: resp.StatusCode}
			}
			if resp.StatusCode >= 300 {
				snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// isRetryable treats transport failures and transient statuses as retryable.
// Request construction and non-transient HTTP statuses are final.
func isRetryable(err error) bool {
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

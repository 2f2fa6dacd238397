package quiz

import (
	"context"
	"log"
	"net/http"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/pkg/errors"

	"cadet_app_backend/scoring"
)

const (
	remoteRequestDeadline = 10 * stdlibtime.Second
	remoteRetryCount      = 3
)

type tokenKey struct{}

// WithToken attaches the caller's bearer token to ctx. RemoteProvider sends it
// in place of its own token.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// RemoteProvider fetches test definitions from the test-definition service.
type RemoteProvider struct {
	client        *req.Client
	token         string
	defaultTestID string
	professions   []scoring.Profession
}

func NewRemoteProvider(baseURL, token, defaultTestID string) *RemoteProvider {
	client := req.C().
		SetBaseURL(baseURL).
		SetTimeout(remoteRequestDeadline).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)

	return &RemoteProvider{
		client:        client,
		token:         token,
		defaultTestID: defaultTestID,
		professions:   scoring.Default.Professions(),
	}
}

func (p *RemoteProvider) Dataset(ctx context.Context, testID string) (*Dataset, error) {
	if testID == "" {
		testID = p.defaultTestID
	}

	r := p.client.R().
		SetContext(ctx).
		SetRetryCount(remoteRetryCount).
		SetRetryBackoffInterval(100*stdlibtime.Millisecond, stdlibtime.Second).
		SetRetryCondition(func(resp *req.Response, err error) bool {
			return err != nil || resp.GetStatusCode() >= http.StatusInternalServerError
		}).
		SetRetryHook(func(resp *req.Response, err error) {
			if err != nil {
				log.Printf("Error fetching test %s, retrying: %v", testID, err)
			} else {
				log.Printf("Test service returned %d for test %s, retrying", resp.GetStatusCode(), testID)
			}
		}).
		SetPathParam("testID", testID)
	token := TokenFromContext(ctx)
	if token == "" {
		token = p.token
	}
	if token != "" {
		r = r.SetBearerAuthToken(token)
	}

	resp, err := r.Get("/profession-tests/{testID}")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch test %v", testID)
	}
	switch code := resp.GetStatusCode(); {
	case code == http.StatusNotFound:
		return nil, errors.Wrap(ErrUnknownTest, testID)
	case code != http.StatusOK:
		return nil, errors.Errorf("unexpected status %v fetching test %v", code, testID)
	}

	body, err := resp.ToBytes()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read test %v", testID)
	}
	ds, err := ParseDataset(body)
	if err != nil {
		return nil, err
	}
	if ds.TestID == "" {
		ds.TestID = testID
	}
	if err = ds.Validate(p.professions); err != nil {
		return nil, err
	}

	return ds, nil
}

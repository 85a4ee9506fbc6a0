// Package credential 푸시 공급자 호출에 필요한 OAuth2 액세스 토큰을 발급하고 캐시합니다.
//
// 서비스 계정 비밀키로 서명한 JWT(RS256)를 토큰 엔드포인트에 제출하는
// JWT-bearer 교환 방식을 사용합니다.
package credential

import (
	"context"
	"crypto/rsa"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/push-server/internal/service/fetcher"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

const component = "credential"

const (
	// MessagingScope FCM HTTP v1 API 호출 권한
	MessagingScope = "https://www.googleapis.com/auth/firebase.messaging"

	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	defaultAssertionLifetime = time.Hour
	defaultRefreshMargin     = 60 * time.Second
	defaultExchangeTimeout   = 10 * time.Second
)

// Manager 액세스 토큰을 캐시하고, 만료가 임박하면 새 토큰으로 교환합니다.
//
// 동시에 여러 요청이 만료된 토큰을 발견해도 교환은 한 번만 수행됩니다.
// 교환은 요청자의 context와 분리되어 실행되므로 한 요청이 취소되어도
// 같은 교환을 기다리는 다른 요청에는 영향이 없습니다.
type Manager struct {
	account *ServiceAccount
	key     *rsa.PrivateKey
	fetcher fetcher.Fetcher

	scope           string
	refreshMargin   time.Duration
	exchangeTimeout time.Duration
	now             func() time.Time

	mu      sync.RWMutex
	token   AccessToken
	lastErr error

	group singleflight.Group
}

// Option Manager 생성 옵션
type Option func(*Manager)

// WithClock 테스트에서 현재 시각을 고정합니다.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithScope(scope string) Option {
	return func(m *Manager) { m.scope = scope }
}

func WithRefreshMargin(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.refreshMargin = d
		}
	}
}

func WithExchangeTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.exchangeTimeout = d
		}
	}
}

// NewManager 서비스 계정의 비밀키를 해석하여 Manager를 생성합니다. 키가 잘못되었으면 실패합니다.
func NewManager(account *ServiceAccount, f fetcher.Fetcher, opts ...Option) (*Manager, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(account.PrivateKey))
	if err != nil {
		return nil, newErrMalformedPrivateKey(err)
	}

	m := &Manager{
		account:         account,
		key:             key,
		fetcher:         f,
		scope:           MessagingScope,
		refreshMargin:   defaultRefreshMargin,
		exchangeTimeout: defaultExchangeTimeout,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ProjectID 서비스 계정이 속한 프로젝트
func (m *Manager) ProjectID() string {
	return m.account.ProjectID
}

// AccessToken 유효한 액세스 토큰을 반환합니다. 실패하면 CredentialFailed 분류의 에러를 반환합니다.
func (m *Manager) AccessToken(ctx context.Context) (AccessToken, error) {
	if tok, ok := m.cached(); ok {
		return tok, nil
	}

	ch := m.group.DoChan("token", func() (any, error) {
		if tok, ok := m.cached(); ok {
			return tok, nil
		}

		exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.exchangeTimeout)
		defer cancel()

		tok, err := m.exchange(exchangeCtx)

		m.mu.Lock()
		m.lastErr = err
		if err == nil {
			m.token = tok
		}
		m.mu.Unlock()

		if err != nil {
			return AccessToken{}, err
		}
		return tok, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return AccessToken{}, res.Err
		}
		return res.Val.(AccessToken), nil

	case <-ctx.Done():
		return AccessToken{}, newErrWaitCancelled(ctx.Err())
	}
}

// Invalidate 캐시된 토큰을 버립니다. 공급자가 토큰을 거부(401)했을 때 호출합니다.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.token = AccessToken{}
	m.mu.Unlock()

	applog.WithComponent(component).Info("캐시된 액세스 토큰을 폐기하였습니다")
}

// Status 현재 캐시 상태와 마지막 교환 결과
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Status{
		HasToken:  m.token.ValidAt(m.now(), m.refreshMargin),
		ExpiresAt: m.token.ExpiresAt,
	}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}

func (m *Manager) cached() (AccessToken, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token.ValidAt(m.now(), m.refreshMargin) {
		return m.token, true
	}
	return AccessToken{}, false
}

func (m *Manager) exchange(ctx context.Context) (AccessToken, error) {
	issuedAt := m.now()

	assertion, err := m.signAssertion(issuedAt)
	if err != nil {
		return AccessToken{}, err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrantType)
	form.Set("assertion", assertion)

	body, err := fetcher.ReadBody(ctx, m.fetcher, fetcher.Request{
		Method: http.MethodPost,
		URL:    m.account.TokenURI,
		Header: map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
			"Accept":       "application/json",
		},
		Body: strings.NewReader(form.Encode()),
	})
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"client_email": m.account.ClientEmail,
			"error":        err,
		}).Error("액세스 토큰 교환 실패")

		return AccessToken{}, newErrExchangeFailed(err)
	}

	if !gjson.ValidBytes(body) {
		return AccessToken{}, newErrInvalidTokenResponse()
	}

	value := gjson.GetBytes(body, "access_token").String()
	if value == "" {
		return AccessToken{}, ErrEmptyAccessToken
	}

	lifetime := defaultAssertionLifetime
	if expiresIn := gjson.GetBytes(body, "expires_in").Int(); expiresIn > 0 {
		lifetime = time.Duration(expiresIn) * time.Second
	}

	tok := AccessToken{Value: value, ExpiresAt: issuedAt.Add(lifetime)}

	applog.WithComponentAndFields(component, applog.Fields{
		"client_email": m.account.ClientEmail,
		"expires_at":   tok.ExpiresAt.Format(time.RFC3339),
	}).Info("액세스 토큰을 발급받았습니다")

	return tok, nil
}

func (m *Manager) signAssertion(issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":   m.account.ClientEmail,
		"scope": m.scope,
		"aud":   m.account.TokenURI,
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(defaultAssertionLifetime).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if m.account.PrivateKeyID != "" {
		t.Header["kid"] = m.account.PrivateKeyID
	}

	signed, err := t.SignedString(m.key)
	if err != nil {
		return "", newErrSignAssertion(err)
	}
	return signed, nil
}

package auth

import (
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// refreshSkew renews a cached token this long before it expires.
const refreshSkew = 30 * time.Second

// TokenManager issues the service token sent to the ticket API.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute, now: time.Now}
}

// Claims describes JWT payload.
type Claims struct {
	Role domain.ServiceRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT for the subject.
func (tm *TokenManager) GenerateToken(subject string, role domain.ServiceRole) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// TokenSource caches one signed token for a fixed subject and role.
type TokenSource struct {
	manager *TokenManager
	subject string
	role    domain.ServiceRole

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource returns a source minting tokens for subject/role.
func NewTokenSource(manager *TokenManager, subject string, role domain.ServiceRole) *TokenSource {
	return &TokenSource{manager: manager, subject: subject, role: role}
}

// Token returns the cached token, minting a new one when it is close to expiry.
func (s *TokenSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.manager.now().Add(refreshSkew).Before(s.expiresAt) {
		return s.token, nil
	}
	token, expiresAt, err := s.manager.GenerateToken(s.subject, s.role)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expiresAt = expiresAt
	return token, nil
}

package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/identity"
	"github.com/dalemusser/clubsphere/internal/domain/models"
)

// StubProvider stands in for the identity provider. Accounts signed up
// through it are also created on the fake backend, so the identity sync
// after sign-in resolves a role.
type StubProvider struct {
	mu        sync.Mutex
	be        *FakeBackend
	accounts  map[string]stubAccount
	Err       error
	signIns   int
	updates   int
	lastPhoto string
}

type stubAccount struct {
	password string
	user     TestUser
}

var _ identity.Provider = (*StubProvider)(nil)

// NewStubProvider returns a provider whose accounts live on be.
func NewStubProvider(be *FakeBackend) *StubProvider {
	return &StubProvider{be: be, accounts: map[string]stubAccount{}}
}

// AddAccount registers email/password for an existing backend user.
func (p *StubProvider) AddAccount(u TestUser, password string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[strings.ToLower(u.Email)] = stubAccount{password: password, user: u}
}

func (p *StubProvider) result(u TestUser, photo string) *identity.Result {
	return &identity.Result{
		User: identity.User{UID: u.UID, Email: u.Email, DisplayName: u.Name, PhotoURL: photo},
		Tokens: identity.Tokens{
			IDToken:      "test-token-" + u.UID,
			RefreshToken: "refresh-" + u.UID,
			ExpiresAt:    time.Now().Add(time.Hour),
		},
	}
}

func (p *StubProvider) SignIn(ctx context.Context, email, password string) (*identity.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signIns++
	if p.Err != nil {
		return nil, p.Err
	}
	acct, ok := p.accounts[strings.ToLower(email)]
	if !ok || acct.password != password {
		return nil, &identity.Error{Op: "signIn", Status: 400, Code: "INVALID_LOGIN_CREDENTIALS"}
	}
	return p.result(acct.user, ""), nil
}

func (p *StubProvider) SignUp(ctx context.Context, email, password, displayName, photoURL string) (*identity.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	key := strings.ToLower(email)
	if _, ok := p.accounts[key]; ok {
		return nil, &identity.Error{Op: "signUp", Status: 400, Code: "EMAIL_EXISTS"}
	}
	u := p.be.AddUser(displayName, email, models.RoleMember)
	p.accounts[key] = stubAccount{password: password, user: u}
	p.lastPhoto = photoURL
	return p.result(u, photoURL), nil
}

func (p *StubProvider) SignInWithGoogle(ctx context.Context, googleIDToken, requestURI string) (*identity.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	for _, acct := range p.accounts {
		if "google-"+acct.user.Email == googleIDToken {
			return p.result(acct.user, ""), nil
		}
	}
	return nil, &identity.Error{Op: "signInWithIdp", Status: 400, Code: "INVALID_IDP_RESPONSE"}
}

func (p *StubProvider) Refresh(ctx context.Context, refreshToken string) (*identity.Tokens, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	uid := strings.TrimPrefix(refreshToken, "refresh-")
	return &identity.Tokens{
		IDToken:      "test-token-" + uid,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (p *StubProvider) UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.updates++
	p.lastPhoto = photoURL
	return nil
}

// SignIns is how many password sign-ins reached the provider.
func (p *StubProvider) SignIns() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signIns
}

// ProfileUpdates is how many profile updates reached the provider.
func (p *StubProvider) ProfileUpdates() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updates
}

// LastPhoto is the photo URL from the last sign-up or profile update.
func (p *StubProvider) LastPhoto() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPhoto
}

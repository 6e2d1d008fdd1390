package domain

import "context"

// Principal is the request-scoped identity established from a valid bearer
// token. There are no locked or disabled states.
type Principal struct {
	UserID      string
	Username    string
	Authorities []string
}

// NewPrincipal projects a stored user onto a principal, one authority per role.
func NewPrincipal(u *User) *Principal {
	authorities := make([]string, len(u.Roles))
	copy(authorities, u.Roles)
	return &Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Authorities: authorities,
	}
}

func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

type principalKey struct{}

// ContextWithPrincipal returns a copy of ctx carrying p.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal attached by the authentication
// middleware, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

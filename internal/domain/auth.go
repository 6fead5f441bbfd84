package domain

type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderLocal  Provider = "local"
)

// Caller is the identity an operation runs on behalf of. A zero UserID means nobody
// could be identified.
type Caller struct {
	UserID   int64
	UserName string
	Roles    []Role
}

func (c Caller) Authenticated() bool {
	return c.UserID > 0
}

func (c Caller) Has(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c Caller) IsAdmin() bool {
	return c.Has(RoleAdmin)
}

type AuthPayload struct {
	Subject  int64    `json:"sub,string"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (p AuthPayload) Caller() Caller {
	roles := make([]Role, 0, len(p.Roles))
	for _, r := range p.Roles {
		roles = append(roles, Role(r))
	}
	return Caller{
		UserID:   p.Subject,
		UserName: p.Username,
		Roles:    roles,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token" xml:"token"`
}

package security

import (
	"path"

	"webservicepoc/src/domain"
)

// Decision is the outcome of evaluating a request against a Policy.
type Decision int

const (
	Allow Decision = iota
	// Deny means the principal is known but lacks the required role.
	Deny
	// Redirect means there is no principal; the caller should log in.
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

type requirementKind int

const (
	permitAll requirementKind = iota
	authenticated
	hasRole
)

// Requirement is what a rule demands from the principal.
type Requirement struct {
	kind requirementKind
	role domain.Role
}

func PermitAll() Requirement {
	return Requirement{kind: permitAll}
}

func Authenticated() Requirement {
	return Requirement{kind: authenticated}
}

func HasRole(role domain.Role) Requirement {
	return Requirement{kind: hasRole, role: role}
}

func (r Requirement) evaluate(principal *domain.Principal) Decision {
	if r.kind == permitAll {
		return Allow
	}

	if principal == nil {
		return Redirect
	}

	if r.kind == hasRole && !principal.HasRole(r.role) {
		return Deny
	}

	return Allow
}

type Rule struct {
	Matcher     AntMatcher
	Requirement Requirement
}

// Policy is an ordered rule list; the first matching rule decides and
// anyRequest covers paths no rule matches.
type Policy struct {
	rules      []Rule
	anyRequest Requirement
}

func NewPolicy(anyRequest Requirement) *Policy {
	return &Policy{anyRequest: anyRequest}
}

// Add appends one rule per pattern, all with the same requirement.
func (p *Policy) Add(requirement Requirement, patterns ...string) *Policy {
	for _, pattern := range patterns {
		p.rules = append(p.rules, Rule{Matcher: NewAntMatcher(pattern), Requirement: requirement})
	}
	return p
}

func (p *Policy) Rules() []Rule {
	return p.rules
}

func (p *Policy) Authorize(requestPath string, principal *domain.Principal) Decision {
	cleaned := path.Clean("/" + requestPath)

	for _, rule := range p.rules {
		if rule.Matcher.Matches(cleaned) {
			return rule.Requirement.evaluate(principal)
		}
	}

	return p.anyRequest.evaluate(principal)
}

// DefaultPolicy opens the landing page, static assets and the login flow,
// restricts the JSON API to USER and requires a login everywhere else.
func DefaultPolicy() *Policy {
	return NewPolicy(Authenticated()).
		Add(PermitAll(),
			"/",
			"/css/**",
			"/images/**",
			"/js/**",
			"/h2-console/**",
			"/oauth2/**",
			"/login/**",
			"/logout",
		).
		Add(HasRole(domain.RoleUser), "/api/v1/**")
}

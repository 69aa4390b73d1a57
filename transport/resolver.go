package transport

import (
	"slices"
	"strings"

	"myregistry/interfaces"
)

// StaticResolver is a fixed list of registry server base URLs.
type StaticResolver struct {
	endpoints []string
}

var _ interfaces.EndpointResolver = (*StaticResolver)(nil)

// NewStaticResolver normalizes urls (trailing slashes removed, blanks and duplicates dropped).
func NewStaticResolver(urls ...string) *StaticResolver {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = NormalizeEndpoint(u)
		if u == "" || slices.Contains(out, u) {
			continue
		}
		out = append(out, u)
	}
	return &StaticResolver{endpoints: out}
}

// Endpoints implements interfaces.EndpointResolver.
func (r *StaticResolver) Endpoints() []string {
	return slices.Clone(r.endpoints)
}

// NormalizeEndpoint trims spaces and trailing slashes.
func NormalizeEndpoint(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

// Excluding wraps resolver so that self is never returned; used for the peer set of a server.
func Excluding(resolver interfaces.EndpointResolver, self string) interfaces.EndpointResolver {
	return excluding{resolver: resolver, self: NormalizeEndpoint(self)}
}

type excluding struct {
	resolver interfaces.EndpointResolver
	self     string
}

func (e excluding) Endpoints() []string {
	return slices.DeleteFunc(e.resolver.Endpoints(), func(u string) bool {
		return NormalizeEndpoint(u) == e.self
	})
}

package interfaces

// EndpointResolver returns the current list of registry server base URLs
// (e.g. "http://10.0.0.5:8761") as a slice owned by the caller. Implemented by
// transport.StaticResolver and the etcd peer resolver; the result must be cheap to compute
// since it is consulted on every request.
//
//go:generate moq -stub -out mock/endpoint_resolver.go -pkg mock . EndpointResolver
type EndpointResolver interface {
	Endpoints() []string
}

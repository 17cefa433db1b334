package httpdomain

// BackendEndpoint describes the single Neighbour Node backend target used by
// the client.
type BackendEndpoint struct {
	BaseURL   string
	UserAgent string
}

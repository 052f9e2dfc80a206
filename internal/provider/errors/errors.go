package errors

import "errors"

var (
	ErrAuth                 = errors.New("bad authentication")
	ErrBadHTTPStatus        = errors.New("bad HTTP status")
	ErrDomainNotSet         = errors.New("domain is not set")
	ErrKeyNotValid          = errors.New("key is not valid")
	ErrNoResultReceived     = errors.New("no result received")
	ErrRateLimited          = errors.New("rate limited by the provider")
	ErrResponseMalformed    = errors.New("response format is malformed")
	ErrSecretNotSet         = errors.New("secret is not set")
	ErrTokenNotSet          = errors.New("token is not set")
	ErrUnsuccessfulResponse = errors.New("unsuccessful response")
	ErrZoneNotFound         = errors.New("zone not found")
)

// Package api implements the HTTP handlers of the langtools API: account
// registration and login, dictionary entries, and reviews of the meanings
// they contain. Handlers decode and validate requests, call the service
// layer and translate its errors into status codes in one place
// (MapErrorToStatusCode) so no internal error text reaches clients.
package api

// Package api provides an HTTP client for the remote gallery service.
//
// # Overview
//
// The gallery service owns durable state: images, their order and user
// accounts. This package speaks its JSON/multipart API and decodes each
// endpoint into an explicit schema that is checked before callers see it.
//
// # Architecture
//
//   - client.go: Client construction, cookies, request plumbing, StatusError
//   - images.go: /api/image/* (list, upload, edit, delete, changeImageOrder)
//   - users.go: /api/user/* (register, login, logout, resetPassword)
//   - types.go: wire types and response validation
//
// # Client Usage
//
//	client, err := api.NewClient("http://127.0.0.1:8080", api.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	user, err := client.Login(ctx, "me@example.com", "secret")
//	images, err := client.ListImages(ctx, user.ID)
//
// # Sessions
//
// The service authenticates with a cookie. Client keeps it in a cookie jar;
// Cookies and SetCookies let the session package persist and restore it
// between runs.
//
// # Error Handling
//
//   - HTTP status >= 400 returns *StatusError with the service's message
//   - A body with status=false on user endpoints returns *StatusError too
//   - Upload and edit return status=false responses as values, not errors
//   - Malformed payloads (bad JSON, images without ids) fail decoding
//
// Delete responses are judged by DeleteResult.Truthy because the service only
// promises "a truthy payload" on success.
package api

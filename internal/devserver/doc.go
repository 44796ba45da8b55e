// Package devserver is an in-memory implementation of the gallery service
// API for local development and end-to-end tests.
//
// It serves the same routes and JSON shapes the client speaks: accounts
// with bcrypt-hashed passwords, an HS256 JWT in the "token" cookie, and
// per-user image galleries whose files are kept in memory and served from
// /uploads/<id>. Nothing survives a restart.
//
//	srv, _ := devserver.New(devserver.Options{Logger: logger})
//	_ = srv.Listen(ctx, "127.0.0.1:8080")
package devserver

// Package blob stores project documents behind a small S3-like interface.
//
// Three drivers exist: fs writes files under a root directory, memory keeps
// objects in process for tests, and s3 talks to AWS S3 or any S3-compatible
// endpoint such as MinIO. Put overwrites existing keys; Get, Head, and Delete
// report missing keys with ErrNotFound.
package blob

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP plumbing shared by all handlers:
request logging, the JSON response/error envelope, request body parsing,
CORS, and client IP extraction.

Engine rejections are written with CodedErrorResponse so the stable
rejection code (e.g. "AlreadyVotedThisOption") reaches the caller
verbatim in the "code" field.
*/
package middleware

// Package simplecms provides the content model and service behind a small
// content-management application: pages, posts and announcements edited
// through an authenticated admin API and shown on a public page once
// published.
//
// A Repository owns the collection of items and is the only component that
// mutates it. Implementations are provided under repo/ (in-memory and
// Postgres). The Service validates input, stamps the author from the session
// principal, exposes the published-only public read and fires EventSink
// callbacks after each mutation.
//
// Not Found
//
// A missing id is the only domain failure. It is reported as ErrItemNotFound
// and never leaves the collection modified.
package simplecms

// Package transport builds the HTTP client used to retrieve IIIF documents.
//
// The client can route through a SOCKS5 proxy and inject per-host headers
// and cookies, which some institutional image servers require. It performs
// no retries and, unless a timeout is configured, imposes no deadline.
package transport

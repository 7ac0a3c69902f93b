// Package google manages per-account OAuth credentials for the Calendar API.
//
// Every account lives in its own directory under <config dir>/accounts/<name>
// and holds a token.json with the stored oauth2.Token. The OAuth client is
// read from client_secret.json, first in the account directory and then in
// the config dir, falling back to GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET.
package google

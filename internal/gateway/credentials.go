package gateway

import "os"

// CredentialsEnvVar holds the optional "username:token" credential for the GitHub API.
const CredentialsEnvVar = "API_CREDENTIALS_GITHUB"

// CredentialProvider supplies the optional credential sent as HTTP Basic auth.
// It is consulted on every request.
type CredentialProvider interface {
	Credential() (string, bool)
}

// StaticCredentials always yields the same credential. An empty value means none.
type StaticCredentials string

func (s StaticCredentials) Credential() (string, bool) {
	return string(s), s != ""
}

// NoCredentials sends every request unauthenticated.
type NoCredentials struct{}

func (NoCredentials) Credential() (string, bool) { return "", false }

// EnvCredentials reads the credential from an environment variable at request
// time. The zero value reads CredentialsEnvVar.
type EnvCredentials struct {
	Name string
}

func (e EnvCredentials) Credential() (string, bool) {
	name := e.Name
	if name == "" {
		name = CredentialsEnvVar
	}
	value := os.Getenv(name)
	return value, value != ""
}

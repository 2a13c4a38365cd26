package repository

// Factory describes access to repositories of the new user store.
type Factory interface {
	Users() UserRepository
	Credentials() CredentialRepository
	Traces() TraceRepository
}

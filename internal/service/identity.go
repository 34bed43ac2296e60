package service

// Identity is the authenticated caller, resolved by the HTTP layer from the
// session token and passed explicitly into every operation. Services stamp
// it onto created groups and scope all reads to UserID; they never consult
// ambient global state for the current user.
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
}

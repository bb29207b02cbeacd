package user

// Identity is a login identifier: either an email address or a user name.
type Identity struct {
	Email Email
	Name  string
}

// ParseIdentity treats s as an email when it is one and as a name otherwise.
func ParseIdentity(s string) Identity {
	if e, err := ParseEmail(s); err == nil {
		return Identity{Email: e}
	}
	return Identity{Name: s}
}

// IsEmail reports whether the identity is an email address.
func (i Identity) IsEmail() bool {
	return i.Email != ""
}

func (i Identity) String() string {
	if i.IsEmail() {
		return string(i.Email)
	}
	return i.Name
}

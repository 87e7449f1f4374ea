package registry

import "fmt"

// Kind identifies the namespace a token is unique within.
// Tokens only collide with other tokens of the same kind.
type Kind string

const (
	KindProduct      Kind = "product"
	KindPost         Kind = "post"
	KindCategory     Kind = "category"
	KindPostCategory Kind = "postCategory"
)

// Kinds lists every supported entity kind.
func Kinds() []Kind {
	return []Kind{KindProduct, KindPost, KindCategory, KindPostCategory}
}

// ParseKind validates a kind name coming from the outside (URL segments,
// request bodies). Unknown names fail with ErrInvalidKind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindProduct, KindPost, KindCategory, KindPostCategory:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindProduct, KindPost, KindCategory, KindPostCategory:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}
